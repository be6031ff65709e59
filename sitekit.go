// Package sitekit is a single-site content management core. It owns the
// content store, the dynamic route table and resolver, the derived
// navigation registry and a demo admin session, and renders templ views
// onto a pluggable surface. There is no server in here: hosts feed it
// location changes and display whatever it resolves.
//
// An App and its components are driven from one goroutine, event by event,
// the way a browser drives a single-page application. Only the content store
// is safe to touch from other goroutines; navigation, routes and the current
// view belong to the event loop alone. The background publish ticker
// therefore writes the store and hands its results back to the host, which
// folds them in with Refresh.
package sitekit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

// ViewFuncs holds the templ components the App renders routes with. This is
// the inversion-of-control mechanism that keeps all markup outside the
// core; the views package ships a default set.
type ViewFuncs struct {
	Home     func(st SiteState) templ.Component
	Static   func(id string, st SiteState) templ.Component // about, contact, terms, privacy
	Page     func(p Page, st SiteState) templ.Component
	Post     func(p Post, st SiteState) templ.Component
	PostList func(posts []Post, st SiteState) templ.Component
	PageList func(entries []NavEntry, pages []Page, st SiteState) templ.Component
	Login    func(st SiteState) templ.Component
	Admin    func(pages []Page, posts []Post, st SiteState) templ.Component
	Search   func(query string, res SearchResults, st SiteState) templ.Component
	NotFound func(key string, st SiteState) templ.Component
}

// SiteState is the per-render snapshot handed to every view: navigation,
// current route, theme and session identity.
type SiteState struct {
	Config  SiteConfig
	Nav     []NavEntry
	Current string
	Theme   string
	User    *User
}

// App is the application context object: it owns the store, navigation,
// routes, session and theme, and funnels every location change through the
// resolver. Construct with New, then Start.
type App struct {
	Config SiteConfig
	Views  ViewFuncs

	Store    *ContentStore
	Nav      *NavRegistry
	Routes   *RouteTable
	Resolver *Resolver
	Session  *Session
	Theme    *ThemeManager
	Images   *ImageStore

	kv          kv.Store
	ownKV       bool
	surface     Surface
	notifier    Notifier
	rawNotifier Notifier
	log         *zap.Logger
	now         func() time.Time

	location       string
	rendering      bool
	pendingRefresh bool
}

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	a := &App{
		Config: cfg,
		Views:  views,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start opens the store, wires the components, seeds the system routes and
// runs the scheduled-publish check once. The first view appears when the
// host delivers a location (Navigate or HandleLocationChange).
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("sitekit: SessionSecret is required")
	}

	if a.kv == nil {
		store, err := kv.OpenSQLite(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("sitekit: open store: %w", err)
		}
		a.kv = store
		a.ownKV = true
	}
	if a.surface == nil {
		a.surface = SurfaceFunc(func(context.Context, templ.Component) error { return nil })
	}
	if a.rawNotifier == nil {
		a.rawNotifier = NewLogNotifier(a.log)
	}
	a.notifier = NewDispatcher(a.rawNotifier, a.Config.NotifyWindow)

	a.Store = NewContentStore(a.kv, a.Config.URL, a.log)
	a.Store.now = a.now
	a.Store.SetNotifier(a.notifier)

	a.Session = NewSession(a.kv, a.Config.SessionSecret, Credentials{
		Username: a.Config.AdminUser,
		Password: a.Config.AdminPassword,
	}, a.log)
	a.Session.SetNotifier(a.notifier)

	a.Theme = NewThemeManager(a.kv, a.Config.DefaultTheme, a.log)
	a.Theme.SetNotifier(a.notifier)

	a.Images = NewImageStore(a.Config.AssetDir)

	a.Nav = NewNavRegistry()
	a.Routes = NewRouteTable(a.log)
	a.Resolver = NewResolver(a.Routes, a.Store, a.postAction, a.pageAction, a.notFoundAction)
	a.registerSystemRoutes()

	// Catch up on overdue schedules before the change callbacks are wired,
	// so starting up never renders on its own.
	if _, err := a.Store.Posts.PublishDue(a.now()); err != nil {
		a.log.Warn("initial publish check failed", zap.Error(err))
	}

	// Recompute before anything resolves: navigation and routes must match
	// the loaded collections and session state from the very first render.
	a.recompute()

	a.Store.OnChange(a.refresh)
	a.Session.OnChange(func(loggedIn bool) {
		a.recompute()
		if loggedIn {
			a.Navigate("admin")
		} else {
			a.Navigate("home")
		}
	})

	a.location = "home"
	return nil
}

// Close releases the backing store if the App opened it.
func (a *App) Close() error {
	if a.ownKV && a.kv != nil {
		return a.kv.Close()
	}
	return nil
}

// Location returns the location of the last resolution.
func (a *App) Location() string { return a.location }

// Navigate resolves and displays the given route key, like following a
// link. Unknown keys are not an error; they render the not-found view.
func (a *App) Navigate(key string) {
	a.HandleLocationChange(key)
}

// HandleLocationChange is the entry point for external location events
// (the host's equivalent of a hash change). Explicit navigation and
// location events both funnel through the same resolution path.
func (a *App) HandleLocationChange(location string) {
	a.location = location
	if a.rendering {
		a.pendingRefresh = true
		return
	}
	a.renderCurrent()
}

// CheckScheduled runs the scheduled-publish check once. The poll interval
// of StartPublishTicker bounds how stale a scheduled post can be; hosts
// that want no staleness call this before reads that must be fresh.
func (a *App) CheckScheduled() ([]Post, error) {
	return a.Store.Posts.PublishDue(a.now())
}

// StartPublishTicker runs the scheduled-publish check every
// Config.PublishPoll on a background goroutine until the returned stop
// function is called. The goroutine only writes the content store; batches
// of newly published posts arrive on the returned channel, and the host
// applies them from its event loop by calling Refresh. The channel closes
// on stop.
func (a *App) StartPublishTicker() (published <-chan []Post, stop func()) {
	ticker := time.NewTicker(a.Config.PublishPoll)
	done := make(chan struct{})
	out := make(chan []Post, 1)
	go func() {
		defer close(out)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				batch, err := a.Store.Posts.publishDue(a.now(), false)
				if err != nil {
					a.log.Warn("publish check failed", zap.Error(err))
					continue
				}
				if len(batch) == 0 {
					continue
				}
				select {
				case out <- batch:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()
	return out, func() { close(done) }
}

// Refresh recomputes navigation and routes from the store and session and
// re-renders the current location. Hosts call it after folding in changes
// made off the event loop, such as batches from StartPublishTicker.
func (a *App) Refresh() {
	a.refresh()
}

// Search runs a query over navigation, pages and posts as the search view
// does. Drafts are excluded unless logged in.
func (a *App) Search(query string, kind SearchKind) SearchResults {
	posts := a.Store.Posts.ListPublic()
	if a.Session.LoggedIn() {
		posts = a.Store.Posts.List()
	}
	return Search(query, kind, a.Nav.All(), a.Store.Pages.List(), posts)
}

// PreviewPost renders a draft as it would appear once published, without
// persisting anything or touching routes.
func (a *App) PreviewPost(draft PostDraft) templ.Component {
	return a.Views.Post(a.Store.previewPost(draft), a.state(""))
}

// PreviewPage renders a page draft without persisting it.
func (a *App) PreviewPage(draft PageDraft) templ.Component {
	return a.Views.Page(a.Store.previewPage(draft), a.state(""))
}

// ToggleTheme flips the theme and re-renders the current view so the
// change is immediately visible.
func (a *App) ToggleTheme() string {
	theme := a.Theme.Toggle()
	a.refresh()
	return theme
}

// state snapshots what every view receives.
func (a *App) state(current string) SiteState {
	return SiteState{
		Config:  a.Config,
		Nav:     a.Nav.Entries(),
		Current: current,
		Theme:   a.Theme.Current(),
		User:    a.Session.Current(),
	}
}

// recompute rebuilds the derived structures from the store and session.
// Always runs before a re-resolve, never after.
func (a *App) recompute() {
	a.Nav.Recompute(a.Store.Pages.List(), a.Session.LoggedIn())
	a.syncRoutes()
}

// refresh recomputes and re-resolves the current location. When called
// from inside a render action the re-resolve is deferred until the current
// display finishes, so resolution is never re-entered.
func (a *App) refresh() {
	a.recompute()
	if a.rendering {
		a.pendingRefresh = true
		return
	}
	a.renderCurrent()
}

func (a *App) renderCurrent() {
	a.display(a.Resolver.Resolve(a.location))
}

func (a *App) display(res Resolution) {
	a.rendering = true
	view := res.Action(res.Query)
	err := a.surface.Display(context.Background(), view)
	a.rendering = false
	if err != nil {
		a.log.Warn("display failed", zap.String("route", res.Key), zap.Error(err))
	}
	if a.pendingRefresh {
		a.pendingRefresh = false
		a.refresh()
	}
}

// syncRoutes reconciles content routes with the store: every public post
// and every page keeps exactly one route, deleted content loses its key.
// The admin route tracks the session.
func (a *App) syncRoutes() {
	wanted := make(map[string]RenderAction)
	for _, p := range a.Store.Posts.List() {
		if p.Public() {
			wanted[p.Slug] = a.postAction(p.ID)
		}
	}
	for _, p := range a.Store.Pages.List() {
		wanted[p.Slug] = a.pageAction(p.ID)
	}
	for _, key := range a.Routes.Keys() {
		if !strings.HasPrefix(key, PostPrefix) && !strings.HasPrefix(key, PagePrefix) {
			continue
		}
		if _, ok := wanted[key]; !ok {
			a.Routes.Unregister(key)
		}
	}
	for key, action := range wanted {
		a.Routes.Register(key, action)
	}
	if a.Session.LoggedIn() {
		a.Routes.Register("admin", a.adminAction)
	} else {
		a.Routes.Unregister("admin")
	}
}

// Route actions hold ids, never record copies; the record is fetched at
// render time so a stale action cannot show deleted content.

func (a *App) postAction(id string) RenderAction {
	return func(url.Values) templ.Component {
		post, err := a.Store.Posts.Get(id)
		if err != nil {
			return a.Views.NotFound("post", a.state(""))
		}
		return a.Views.Post(post, a.state(post.Slug))
	}
}

func (a *App) pageAction(id string) RenderAction {
	return func(url.Values) templ.Component {
		page, err := a.Store.Pages.Get(id)
		if err != nil {
			return a.Views.NotFound("page", a.state(""))
		}
		return a.Views.Page(page, a.state(page.Slug))
	}
}

func (a *App) notFoundAction(key string) RenderAction {
	return func(url.Values) templ.Component {
		return a.Views.NotFound(key, a.state(""))
	}
}

func (a *App) adminAction(url.Values) templ.Component {
	if !a.Session.LoggedIn() {
		return a.Views.Home(a.state("home"))
	}
	return a.Views.Admin(a.Store.Pages.List(), a.Store.Posts.List(), a.state("admin"))
}

func (a *App) registerSystemRoutes() {
	a.Routes.Register("home", func(url.Values) templ.Component {
		return a.Views.Home(a.state("home"))
	})
	for _, id := range []string{"about", "contact", "terms", "privacy"} {
		a.Routes.Register(id, func(url.Values) templ.Component {
			return a.Views.Static(id, a.state(id))
		})
	}
	a.Routes.Register("post", func(url.Values) templ.Component {
		return a.Views.PostList(a.Store.Posts.ListPublic(), a.state("post"))
	})
	a.Routes.Register("pages", func(url.Values) templ.Component {
		return a.Views.PageList(a.Nav.All(), a.Store.Pages.List(), a.state("pages"))
	})
	a.Routes.Register("login", func(url.Values) templ.Component {
		if a.Session.LoggedIn() {
			return a.adminAction(nil)
		}
		return a.Views.Login(a.state("login"))
	})
	a.Routes.Register("search", func(q url.Values) templ.Component {
		query := q.Get("q")
		kind := SearchKind(q.Get("type"))
		return a.Views.Search(query, a.Search(query, kind), a.state("search"))
	})
}

// previewPost materializes a draft with a temporary id, persisting nothing.
func (c *ContentStore) previewPost(draft PostDraft) Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := "temp-" + strconv.FormatInt(c.now().UnixMilli(), 10)
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "Untitled Post"
	}
	slug := c.allocateSlugLocked(PostPrefix, title, id)
	return c.materializeLocked(draft, id, slug, c.timestamp())
}

// previewPage materializes a page draft with a temporary id. Previews stay
// out of navigation regardless of the draft flag.
func (c *ContentStore) previewPage(draft PageDraft) Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := "temp-" + strconv.FormatInt(c.now().UnixMilli(), 10)
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "Untitled Page " + id
	}
	return Page{
		ID:           id,
		Title:        title,
		Slug:         c.allocateSlugLocked(PagePrefix, title, id),
		Content:      draft.Content,
		HTML:         draft.HTML,
		Category:     draft.Category,
		ShowInNav:    false,
		LastModified: c.timestamp(),
	}
}
