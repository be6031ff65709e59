package sitekit

import (
	"net/url"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// RenderAction produces the full replacement view for a resolved route.
// The query portion of the location is passed through opaquely; the
// resolver never interprets it.
type RenderAction func(query url.Values) templ.Component

// RouteTable maps route keys to render actions. System routes are seeded
// once; content routes come and go with the records behind them.
type RouteTable struct {
	routes map[string]RenderAction
	log    *zap.Logger
}

// NewRouteTable returns an empty table.
func NewRouteTable(log *zap.Logger) *RouteTable {
	if log == nil {
		log = zap.NewNop()
	}
	return &RouteTable{routes: make(map[string]RenderAction), log: log}
}

// Register maps key to action. Registration is an idempotent overwrite;
// the last registration for a key wins.
func (t *RouteTable) Register(key string, action RenderAction) {
	t.routes[key] = action
}

// Unregister removes the mapping for key. Resolving the key afterwards
// takes the normal miss path; this is never an error.
func (t *RouteTable) Unregister(key string) {
	delete(t.routes, key)
}

// Has reports whether key is currently registered.
func (t *RouteTable) Has(key string) bool {
	_, ok := t.routes[key]
	return ok
}

// Keys returns all registered route keys, sorted for stable output.
func (t *RouteTable) Keys() []string {
	keys := make([]string, 0, len(t.routes))
	for k := range t.routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolution is the outcome of resolving a location: exactly one action to
// invoke, plus the parsed key and query. Found is false only on the
// not-found fallback.
type Resolution struct {
	Key    string
	Query  url.Values
	Action RenderAction
	Found  bool
}

// Resolver maps an incoming location to a render action. Lookups fall
// through three tiers: exact table match, post slug, page slug; a full miss
// resolves to the not-found action and never fails.
type Resolver struct {
	table *RouteTable
	store *ContentStore

	// Action factories for lazily registered content routes and the
	// not-found terminal state. Wired by the App from its ViewFuncs.
	postAction func(id string) RenderAction
	pageAction func(id string) RenderAction
	notFound   func(key string) RenderAction
}

// NewResolver wires a resolver over the given table and content store.
func NewResolver(table *RouteTable, store *ContentStore, postAction, pageAction func(id string) RenderAction, notFound func(key string) RenderAction) *Resolver {
	return &Resolver{
		table:      table,
		store:      store,
		postAction: postAction,
		pageAction: pageAction,
		notFound:   notFound,
	}
}

// SplitLocation separates a location into its route key and raw query.
// An empty key resolves to home.
func SplitLocation(location string) (key, rawQuery string) {
	location = strings.TrimPrefix(location, "#")
	key, rawQuery, _ = strings.Cut(location, "?")
	if key == "" {
		key = "home"
	}
	return key, rawQuery
}

// Resolve computes the next view for location. It is a pure lookup apart
// from self-healing: a content slug present in the store but missing from
// the table (for example after a restart that skipped initialization) is
// registered on the way through. Actions invoked from the returned
// resolution may register or unregister routes; those changes only affect
// the next resolution.
func (r *Resolver) Resolve(location string) Resolution {
	key, rawQuery := SplitLocation(location)
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Opaque to us; hand the actions an empty set rather than failing.
		query = url.Values{}
	}

	if action, ok := r.table.routes[key]; ok {
		return Resolution{Key: key, Query: query, Action: action, Found: true}
	}

	if strings.HasPrefix(key, PostPrefix) {
		// Only published posts self-heal; a draft's route must not exist.
		if post, ok := r.store.Posts.BySlug(key); ok && post.Public() {
			action := r.postAction(post.ID)
			r.table.Register(key, action)
			return Resolution{Key: key, Query: query, Action: action, Found: true}
		}
	}

	if strings.HasPrefix(key, PagePrefix) {
		if page, ok := r.store.Pages.BySlug(key); ok {
			action := r.pageAction(page.ID)
			r.table.Register(key, action)
			return Resolution{Key: key, Query: query, Action: action, Found: true}
		}
	}

	r.table.log.Debug("route miss", zap.String("key", key))
	return Resolution{Key: key, Query: query, Action: r.notFound(key), Found: false}
}
