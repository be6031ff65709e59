package sitekit

import "strings"

// SearchKind filters search results by content type.
type SearchKind string

const (
	SearchAll   SearchKind = "all"
	SearchPages SearchKind = "pages"
	SearchPosts SearchKind = "posts"
)

// SearchResults groups matches the way the search view lists them: static
// navigation pages, stored pages, then posts.
type SearchResults struct {
	NavMatches []NavEntry
	Pages      []Page
	Posts      []Post
}

// Empty reports whether nothing matched.
func (r SearchResults) Empty() bool {
	return len(r.NavMatches) == 0 && len(r.Pages) == 0 && len(r.Posts) == 0
}

// Search runs a case-insensitive substring match over titles and content.
// An empty query matches nothing.
func Search(query string, kind SearchKind, entries []NavEntry, pages []Page, posts []Post) SearchResults {
	q := strings.ToLower(strings.TrimSpace(query))
	var out SearchResults
	if q == "" {
		return out
	}
	if kind == "" {
		kind = SearchAll
	}

	if kind == SearchAll || kind == SearchPages {
		for _, e := range entries {
			if e.Kind == "page" && strings.Contains(strings.ToLower(e.Label), q) {
				out.NavMatches = append(out.NavMatches, e)
			}
		}
		for _, p := range pages {
			if strings.Contains(strings.ToLower(p.Title), q) ||
				strings.Contains(strings.ToLower(p.Content), q) {
				out.Pages = append(out.Pages, p)
			}
		}
	}

	if kind == SearchAll || kind == SearchPosts {
		for _, p := range posts {
			if strings.Contains(strings.ToLower(p.Title), q) ||
				strings.Contains(strings.ToLower(p.Content), q) {
				out.Posts = append(out.Posts, p)
			}
		}
	}

	return out
}
