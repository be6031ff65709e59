package sitekit

import "sort"

// systemEntries are the fixed navigation entries. Terms and privacy exist
// as routes but stay out of the menu.
func systemEntries() []NavEntry {
	return []NavEntry{
		{ID: "home", Label: "Home", Route: "home", Kind: "page", ShowInNav: true},
		{ID: "search", Label: "Search", Route: "search", Kind: "system", ShowInNav: true},
		{ID: "post", Label: "All Posts", Route: "post", Kind: "system", ShowInNav: true},
		{ID: "about", Label: "About", Route: "about", Kind: "page", ShowInNav: true},
		{ID: "pages", Label: "All Pages", Route: "pages", Kind: "system", ShowInNav: true},
		{ID: "contact", Label: "Contact", Route: "contact", Kind: "page", ShowInNav: true},
		{ID: "terms", Label: "Terms", Route: "terms", Kind: "page", ShowInNav: false},
		{ID: "privacy", Label: "Privacy", Route: "privacy", Kind: "page", ShowInNav: false},
	}
}

// NavRegistry holds the ordered navigation entries. It is derived state:
// the dynamic portion is rebuilt from the page collection and session state
// on every recompute, never patched incrementally, so it cannot drift from
// the content store.
type NavRegistry struct {
	static  []NavEntry
	dynamic []NavEntry
	admin   bool
}

// NewNavRegistry returns a registry seeded with the system entries.
func NewNavRegistry() *NavRegistry {
	return &NavRegistry{static: systemEntries()}
}

// Recompute rebuilds the dynamic entries from scratch. Page entries are
// ordered by title; the admin entry tracks session state only.
func (n *NavRegistry) Recompute(pages []Page, loggedIn bool) {
	sorted := make([]Page, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Title < sorted[j].Title })

	n.dynamic = n.dynamic[:0]
	for _, p := range sorted {
		n.dynamic = append(n.dynamic, NavEntry{
			ID:        p.ID,
			Label:     p.Title,
			Route:     p.Slug,
			Kind:      "page",
			ShowInNav: p.ShowInNav,
		})
	}
	n.admin = loggedIn
}

// Entries returns the visible entries in menu order: system, then dynamic
// pages, then admin when logged in.
func (n *NavRegistry) Entries() []NavEntry {
	var out []NavEntry
	for _, e := range n.static {
		if e.ShowInNav {
			out = append(out, e)
		}
	}
	for _, e := range n.dynamic {
		if e.ShowInNav {
			out = append(out, e)
		}
	}
	if n.admin {
		out = append(out, NavEntry{ID: "admin", Label: "Admin", Route: "admin", Kind: "admin", ShowInNav: true})
	}
	return out
}

// All returns every entry, hidden ones included, for listings and search.
func (n *NavRegistry) All() []NavEntry {
	out := make([]NavEntry, 0, len(n.static)+len(n.dynamic)+1)
	out = append(out, n.static...)
	out = append(out, n.dynamic...)
	if n.admin {
		out = append(out, NavEntry{ID: "admin", Label: "Admin", Route: "admin", Kind: "admin", ShowInNav: true})
	}
	return out
}
