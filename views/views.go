// Package views ships the default templ components for sitekit routes.
// Sites that want their own markup provide their own ViewFuncs instead;
// nothing in the core depends on this package.
package views

import (
	"context"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/f2pweb/sitekit"
)

// Default returns a complete ViewFuncs set rendering plain HTML fragments.
func Default() sitekit.ViewFuncs {
	return sitekit.ViewFuncs{
		Home:     Home,
		Static:   Static,
		Page:     Page,
		Post:     Post,
		PostList: PostList,
		PageList: PageList,
		Login:    Login,
		Admin:    Admin,
		Search:   SearchView,
		NotFound: NotFound,
	}
}

// frame wraps a body in the shared chrome: nav on top, footer below.
func frame(st sitekit.SiteState, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="app" data-theme="` + html.EscapeString(st.Theme) + `">`)
		writeNav(&b, st)
		b.WriteString(`<main>`)
		body(&b)
		b.WriteString(`</main>`)
		writeFooter(&b, st)
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeNav(b *strings.Builder, st sitekit.SiteState) {
	b.WriteString(`<nav class="main-nav">`)
	for _, e := range st.Nav {
		b.WriteString(`<a href="#` + html.EscapeString(e.Route) + `"`)
		if e.Route == st.Current {
			b.WriteString(` class="active"`)
		}
		b.WriteString(`>` + html.EscapeString(e.Label) + `</a>`)
	}
	if st.User != nil {
		b.WriteString(`<a href="#home" class="logout">Logout</a>`)
	} else {
		b.WriteString(`<a href="#login" class="login">Login</a>`)
	}
	b.WriteString(`</nav>`)
}

func writeFooter(b *strings.Builder, st sitekit.SiteState) {
	year := time.Now().Year()
	b.WriteString(`<footer class="site-footer"><p>&copy; `)
	b.WriteString(html.EscapeString(st.Config.Name))
	b.WriteString(` `)
	b.WriteString(strconv.Itoa(year))
	b.WriteString(`. All rights reserved.</p>`)
	b.WriteString(`<div class="footer-links"><a href="#home">Home</a> <a href="#privacy">Privacy</a> <a href="#terms">Terms</a></div>`)
	b.WriteString(`</footer>`)
}

// Home renders the landing view.
func Home(st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<h1>Welcome to ` + html.EscapeString(st.Config.Name) + `</h1>`)
		if st.Config.Description != "" {
			b.WriteString(`<p>` + html.EscapeString(st.Config.Description) + `</p>`)
		}
	})
}

var staticBodies = map[string][2]string{
	"about":   {"About", "This site demonstrates a fully client-rendered one-page app with routing, theming, and admin content editing."},
	"contact": {"Contact Us", "Email: support@example.com"},
	"terms":   {"Terms of Service", "By using this website, you agree to our terms and conditions."},
	"privacy": {"Privacy Policy", "We respect your privacy. No tracking. No third-party data sales."},
}

// Static renders one of the fixed informational pages.
func Static(id string, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		body, ok := staticBodies[id]
		if !ok {
			body = [2]string{id, ""}
		}
		b.WriteString(`<h2>` + html.EscapeString(body[0]) + `</h2>`)
		if body[1] != "" {
			b.WriteString(`<p>` + html.EscapeString(body[1]) + `</p>`)
		}
	})
}

// Page renders a stored content page with its metadata line.
func Page(p sitekit.Page, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<h2>` + html.EscapeString(p.Title) + `</h2>`)
		b.WriteString(`<p><small>Last modified: ` + html.EscapeString(p.LastModified) + `</small>`)
		category := p.Category
		if category == "" {
			category = "None"
		}
		b.WriteString(`<br><small>Category: ` + html.EscapeString(category) + `</small></p>`)
		b.WriteString(sitekit.BodyHTML(p.HTML, p.Content))
	})
}

// Post renders a full post view.
func Post(p sitekit.Post, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<article class="full-post-view">`)
		if p.Thumbnail != "" {
			b.WriteString(`<img class="post-thumbnail" src="` + html.EscapeString(p.Thumbnail) + `" alt="` + html.EscapeString(p.Title) + ` thumbnail">`)
		}
		b.WriteString(`<h1>` + html.EscapeString(p.Title) + `</h1>`)
		now := time.Now()
		category := p.Category
		if category == "" {
			category = "Uncategorized"
		}
		tags := sitekit.JoinTags(p.Tags)
		if tags == "" {
			tags = "None"
		}
		b.WriteString(`<p class="post-meta"><small>` + html.EscapeString(p.Author) + `</small> | <small>created ` + html.EscapeString(sitekit.TimeAgo(p.CreatedAt, now)) + `</small> | <small>updated ` + html.EscapeString(sitekit.TimeAgo(p.UpdatedAt, now)) + `</small> | <small>` + html.EscapeString(category) + `</small> | <small>` + html.EscapeString(tags) + `</small></p>`)
		b.WriteString(`<div class="post-body">` + sitekit.BodyHTML(p.HTML, p.Content) + `</div>`)
		b.WriteString(`</article>`)
	})
}

// PostList renders the all-posts listing with content previews.
func PostList(posts []sitekit.Post, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<h2>All Posts</h2>`)
		if len(posts) == 0 {
			b.WriteString(`<p>No posts available yet.</p>`)
			return
		}
		b.WriteString(`<ul>`)
		for _, p := range posts {
			b.WriteString(`<li><a href="#` + html.EscapeString(p.Slug) + `"><strong>` + html.EscapeString(p.Title) + `</strong></a>`)
			b.WriteString(`<p>` + html.EscapeString(sitekit.Truncate(p.Content, 100)) + `</p></li>`)
		}
		b.WriteString(`</ul>`)
	})
}

// PageList renders the all-pages listing: system entries, then custom pages.
func PageList(entries []sitekit.NavEntry, pages []sitekit.Page, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<h2>All Available Pages</h2>`)
		b.WriteString(`<h3>Built-in &amp; System Pages</h3><ul>`)
		seen := make(map[string]struct{})
		for _, e := range entries {
			if e.Kind != "page" && e.Kind != "system" {
				continue
			}
			if _, ok := seen[e.ID]; ok {
				continue
			}
			seen[e.ID] = struct{}{}
			b.WriteString(`<li><a href="#` + html.EscapeString(e.Route) + `">` + html.EscapeString(e.Label) + `</a> <small>(` + html.EscapeString(e.Kind) + `)</small></li>`)
		}
		b.WriteString(`</ul><h3>Custom Pages</h3><ul>`)
		for _, p := range pages {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			b.WriteString(`<li><a href="#` + html.EscapeString(p.Slug) + `">` + html.EscapeString(p.Title) + `</a> <small>(page)</small></li>`)
		}
		b.WriteString(`</ul>`)
	})
}

// Login renders the login form.
func Login(st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<div class="login-container"><form class="login-form">`)
		b.WriteString(`<h2>Login</h2>`)
		b.WriteString(`<input name="username" placeholder="Username" autocomplete="username" required>`)
		b.WriteString(`<input type="password" name="password" placeholder="Password" autocomplete="current-password" required>`)
		b.WriteString(`<button type="submit">Login</button>`)
		b.WriteString(`</form></div>`)
	})
}

// Admin renders the dashboard with both collections.
func Admin(pages []sitekit.Page, posts []sitekit.Post, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<h2>Admin Dashboard</h2>`)
		b.WriteString(`<h3>Manage Pages</h3><ul>`)
		for _, p := range pages {
			b.WriteString(`<li><strong>` + html.EscapeString(p.Title) + `</strong> <small>` + html.EscapeString(p.Slug) + `</small></li>`)
		}
		b.WriteString(`</ul><h3>Manage Posts</h3><ul>`)
		for _, p := range posts {
			b.WriteString(`<li><strong>` + html.EscapeString(p.Title) + `</strong> <small>` + html.EscapeString(string(p.Permissions.Visibility)) + `</small></li>`)
		}
		b.WriteString(`</ul>`)
	})
}

// SearchView renders grouped search results.
func SearchView(query string, res sitekit.SearchResults, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<h2>Search Pages &amp; Posts</h2>`)
		if strings.TrimSpace(query) == "" {
			return
		}
		if res.Empty() {
			b.WriteString(`<p>No results for "<em>` + html.EscapeString(query) + `</em>"</p>`)
			return
		}
		if len(res.NavMatches) > 0 || len(res.Pages) > 0 {
			b.WriteString(`<h3>Pages</h3>`)
			for _, e := range res.NavMatches {
				b.WriteString(`<a href="#` + html.EscapeString(e.Route) + `">` + html.EscapeString(e.Label) + `</a>`)
			}
			for _, p := range res.Pages {
				b.WriteString(`<a href="#` + html.EscapeString(p.Slug) + `">` + html.EscapeString(p.Title) + `</a>`)
			}
		}
		if len(res.Posts) > 0 {
			b.WriteString(`<h3>Posts</h3>`)
			for _, p := range res.Posts {
				b.WriteString(`<div><a href="#` + html.EscapeString(p.Slug) + `"><strong>` + html.EscapeString(p.Title) + `</strong></a>`)
				b.WriteString(`<p>` + html.EscapeString(sitekit.Truncate(p.Content, 100)) + `</p></div>`)
			}
		}
	})
}

// NotFound renders the fallback view with the unmatched route key.
func NotFound(key string, st sitekit.SiteState) templ.Component {
	return frame(st, func(b *strings.Builder) {
		b.WriteString(`<h2>404 - Page Not Found</h2>`)
		b.WriteString(`<p>No route found for <code>#` + html.EscapeString(key) + `</code><br>`)
		b.WriteString(`<a href="#home" class="notfound-link">Go back home</a></p>`)
	})
}
