package sitekit

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

func markerAction(marker string) RenderAction {
	return func(url.Values) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, marker)
			return err
		})
	}
}

func TestSplitLocation(t *testing.T) {
	cases := []struct {
		in        string
		key, raw  string
	}{
		{"#home", "home", ""},
		{"home", "home", ""},
		{"", "home", ""},
		{"#", "home", ""},
		{"#search?q=go&type=posts", "search", "q=go&type=posts"},
		{"#post/hello-world", "post/hello-world", ""},
		{"#?q=x", "home", "q=x"},
	}
	for _, c := range cases {
		key, raw := SplitLocation(c.in)
		if key != c.key || raw != c.raw {
			t.Errorf("SplitLocation(%q) = (%q, %q), want (%q, %q)", c.in, key, raw, c.key, c.raw)
		}
	}
}

func TestRouteTableRegisterIdempotent(t *testing.T) {
	table := NewRouteTable(zap.NewNop())
	table.Register("home", markerAction("first"))
	table.Register("home", markerAction("second"))
	if got := table.Keys(); len(got) != 1 || got[0] != "home" {
		t.Errorf("Keys = %v", got)
	}
	if !table.Has("home") {
		t.Error("Has(home) = false")
	}
	table.Unregister("home")
	table.Unregister("home") // repeat is a no-op
	if table.Has("home") {
		t.Error("Has(home) = true after unregister")
	}
}

func TestRouteTableKeysSorted(t *testing.T) {
	table := NewRouteTable(nil)
	for _, k := range []string{"search", "about", "home"} {
		table.Register(k, markerAction(k))
	}
	got := table.Keys()
	want := []string{"about", "home", "search"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", got, want)
		}
	}
}

func newTestResolver(t *testing.T) (*Resolver, *RouteTable, *ContentStore) {
	t.Helper()
	cs := NewContentStore(kv.NewMemory(), "", zap.NewNop())
	table := NewRouteTable(zap.NewNop())
	res := NewResolver(table, cs,
		func(id string) RenderAction { return markerAction("post:" + id) },
		func(id string) RenderAction { return markerAction("page:" + id) },
		func(key string) RenderAction { return markerAction("notfound:" + key) },
	)
	return res, table, cs
}

func renderResolution(t *testing.T, res Resolution) string {
	t.Helper()
	var sb captureWriter
	if err := res.Action(res.Query).Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

type captureWriter struct{ b []byte }

func (w *captureWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *captureWriter) String() string { return string(w.b) }

func TestResolveExactMatch(t *testing.T) {
	r, table, _ := newTestResolver(t)
	table.Register("home", markerAction("home"))
	res := r.Resolve("#home")
	if !res.Found || res.Key != "home" {
		t.Fatalf("res = %+v", res)
	}
	if got := renderResolution(t, res); got != "home" {
		t.Errorf("rendered %q", got)
	}
}

func TestResolveLazyPostRegistration(t *testing.T) {
	r, table, cs := newTestResolver(t)
	post, _ := cs.Posts.Create(PostDraft{Title: "Hello World", Content: "x"})
	if table.Has(post.Slug) {
		t.Fatal("slug registered before resolve")
	}
	res := r.Resolve("#" + post.Slug)
	if !res.Found {
		t.Fatalf("res = %+v", res)
	}
	if got := renderResolution(t, res); got != "post:"+post.ID {
		t.Errorf("rendered %q", got)
	}
	if !table.Has(post.Slug) {
		t.Error("resolve did not self-heal the table")
	}
}

func TestResolveSkipsDraftPosts(t *testing.T) {
	r, table, cs := newTestResolver(t)
	post, _ := cs.Posts.Create(PostDraft{
		Title:       "Hidden",
		Permissions: &Permissions{Visibility: VisibilityDraft},
	})
	res := r.Resolve("#" + post.Slug)
	if res.Found {
		t.Fatal("draft post resolved")
	}
	if table.Has(post.Slug) {
		t.Error("draft slug was registered")
	}
}

func TestResolveLazyPageRegistration(t *testing.T) {
	r, table, cs := newTestResolver(t)
	page, _ := cs.Pages.Create(PageDraft{Title: "FAQ"})
	res := r.Resolve(page.Slug)
	if !res.Found {
		t.Fatalf("res = %+v", res)
	}
	if got := renderResolution(t, res); got != "page:"+page.ID {
		t.Errorf("rendered %q", got)
	}
	if !table.Has(page.Slug) {
		t.Error("resolve did not register the page slug")
	}
}

func TestResolveMiss(t *testing.T) {
	r, _, _ := newTestResolver(t)
	for _, loc := range []string{"#zzz-nope", "#post/ghost", "#page/ghost"} {
		res := r.Resolve(loc)
		if res.Found {
			t.Errorf("Resolve(%q).Found = true", loc)
		}
		if got := renderResolution(t, res); got == "" {
			t.Errorf("Resolve(%q) produced no view", loc)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	r, table, cs := newTestResolver(t)
	table.Register("home", markerAction("home"))
	post, _ := cs.Posts.Create(PostDraft{Title: "Stable", Content: "x"})
	for _, loc := range []string{"#home", "#" + post.Slug, "#missing"} {
		first := r.Resolve(loc)
		second := r.Resolve(loc)
		if first.Key != second.Key || first.Found != second.Found {
			t.Errorf("Resolve(%q) unstable: %+v vs %+v", loc, first, second)
		}
		if renderResolution(t, first) != renderResolution(t, second) {
			t.Errorf("Resolve(%q) renders differently on repeat", loc)
		}
	}
}

func TestResolveQueryPassthrough(t *testing.T) {
	r, table, _ := newTestResolver(t)
	var seen url.Values
	table.Register("search", func(q url.Values) templ.Component {
		seen = q
		return markerAction("search")(q)
	})
	res := r.Resolve("#search?q=hello&type=pages")
	renderResolution(t, res)
	if seen.Get("q") != "hello" || seen.Get("type") != "pages" {
		t.Errorf("query = %v", seen)
	}
}

func TestResolveBadQuery(t *testing.T) {
	r, table, _ := newTestResolver(t)
	table.Register("search", markerAction("search"))
	res := r.Resolve("#search?%zz=broken")
	if !res.Found || res.Key != "search" {
		t.Fatalf("res = %+v", res)
	}
	if len(res.Query) != 0 {
		t.Errorf("bad query should resolve empty, got %v", res.Query)
	}
}
