package sitekit

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

// Persisted collection keys. Session and theme state use their own keys
// (see session.go and theme.go); each key is read once at startup and
// rewritten in full after every mutation to its owning collection.
const (
	pagesKey = "sitePages"
	postsKey = "sitePosts"
)

// ErrNotFound is returned by update and delete operations on a missing id.
var ErrNotFound = errors.New("sitekit: not found")

// PageDraft is the caller-supplied part of a new page. ShowInNav nil means
// the page appears in navigation.
type PageDraft struct {
	Title     string
	Content   string
	HTML      string
	Category  string
	ShowInNav *bool
}

// PagePatch updates a page. Nil fields are left unchanged. The id, slug and
// creation data of a page cannot be patched.
type PagePatch struct {
	Title     *string
	Content   *string
	HTML      *string
	Category  *string
	ShowInNav *bool
}

// PostDraft is the caller-supplied part of a new post. Zero fields receive
// the store defaults.
type PostDraft struct {
	Title       string
	Description string
	HTML        string
	Content     string
	Category    string
	Author      string
	Thumbnail   string
	ScheduledAt string
	Tags        []string
	Permissions *Permissions
	SEO         *SEO
}

// PostPatch updates a post. Nil fields are left unchanged.
type PostPatch struct {
	Title       *string
	Description *string
	HTML        *string
	Content     *string
	Category    *string
	Author      *string
	Thumbnail   *string
	ScheduledAt *string
	Tags        *[]string
	Permissions *Permissions
	SEO         *SEO
}

// ContentStore owns the page and post collections and their persistence.
// Both collections share one key/value store and one slug namespace, so a
// page and a post can never claim the same route key.
type ContentStore struct {
	mu       sync.Mutex
	kv       kv.Store
	log      *zap.Logger
	notifier Notifier
	now      func() time.Time
	newID    func() string
	siteURL  string
	onChange func()

	Pages *PageStore
	Posts *PostStore
}

// PageStore provides CRUD for pages.
type PageStore struct {
	cs    *ContentStore
	pages []Page
}

// PostStore provides CRUD for posts.
type PostStore struct {
	cs    *ContentStore
	posts []Post
}

// NewContentStore loads both collections from store. A missing or corrupt
// collection value falls back to empty; corruption is logged, never fatal.
func NewContentStore(store kv.Store, siteURL string, log *zap.Logger) *ContentStore {
	if log == nil {
		log = zap.NewNop()
	}
	c := &ContentStore{
		kv:      store,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
	c.Pages = &PageStore{cs: c}
	c.Posts = &PostStore{cs: c}
	loadCollection(store, pagesKey, &c.Pages.pages, log)
	loadCollection(store, postsKey, &c.Posts.posts, log)
	return c
}

// OnChange registers the callback fired after every successful mutation.
// The application uses it to recompute navigation and routes before
// re-resolving the current location.
func (c *ContentStore) OnChange(fn func()) { c.onChange = fn }

// SetNotifier sets the collaborator that receives content-changed events.
func (c *ContentStore) SetNotifier(n Notifier) { c.notifier = n }

func loadCollection[T any](store kv.Store, key string, dst *[]T, log *zap.Logger) {
	raw, ok, err := store.Get(key)
	if err != nil {
		log.Warn("read collection failed, starting empty", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok || raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Warn("corrupt collection value, starting empty", zap.String("key", key), zap.Error(err))
		*dst = nil
	}
}

func (c *ContentStore) persistLocked(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.kv.Set(key, string(raw))
}

func (c *ContentStore) fireChange() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *ContentStore) notify(n Notification) {
	if c.notifier != nil {
		c.notifier.Show(n)
	}
}

// slugTakenLocked reports whether slug is already a route key of any page
// or post, excluding the record with exceptID.
func (c *ContentStore) slugTakenLocked(slug, exceptID string) bool {
	for _, p := range c.Pages.pages {
		if p.Slug == slug && p.ID != exceptID {
			return true
		}
	}
	for _, p := range c.Posts.posts {
		if p.Slug == slug && p.ID != exceptID {
			return true
		}
	}
	return false
}

// allocateSlugLocked derives a slug from title under prefix and suffixes
// "-2", "-3", ... until it is unique across pages and posts. Slugify itself
// never disambiguates; collision handling lives here, with the caller.
func (c *ContentStore) allocateSlugLocked(prefix, title, fallbackID string) string {
	base := Slugify(title)
	if base == "" {
		base = fallbackID
	}
	candidate := prefix + base
	for n := 2; c.slugTakenLocked(candidate, ""); n++ {
		candidate = prefix + base + "-" + strconv.Itoa(n)
	}
	return candidate
}

func (c *ContentStore) timestamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

// --- pages ---

// List returns the pages in insertion order. The result is a copy; sorts
// applied by callers do not affect stored order.
func (s *PageStore) List() []Page {
	s.cs.mu.Lock()
	defer s.cs.mu.Unlock()
	out := make([]Page, len(s.pages))
	copy(out, s.pages)
	return out
}

// Get returns the page with the given id.
func (s *PageStore) Get(id string) (Page, error) {
	s.cs.mu.Lock()
	defer s.cs.mu.Unlock()
	for _, p := range s.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return Page{}, ErrNotFound
}

// BySlug returns the page with the given route key.
func (s *PageStore) BySlug(slug string) (Page, bool) {
	s.cs.mu.Lock()
	defer s.cs.mu.Unlock()
	for _, p := range s.pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}

// Create stores a new page. The id and slug are assigned here and never
// change afterwards.
func (s *PageStore) Create(draft PageDraft) (Page, error) {
	c := s.cs
	c.mu.Lock()
	id := c.newID()
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "Untitled Page " + id
	}
	page := Page{
		ID:           id,
		Title:        title,
		Slug:         c.allocateSlugLocked(PagePrefix, title, id),
		Content:      draft.Content,
		HTML:         draft.HTML,
		Category:     draft.Category,
		ShowInNav:    draft.ShowInNav == nil || *draft.ShowInNav,
		LastModified: c.timestamp(),
	}
	s.pages = append(s.pages, page)
	err := c.persistLocked(pagesKey, s.pages)
	c.mu.Unlock()
	if err != nil {
		return Page{}, err
	}
	c.notify(Notification{Title: "Page Updated", Message: page.Title + " saved.", Icon: "check_circle", Severity: SeveritySuccess})
	c.fireChange()
	return page, nil
}

// Update merges patch into the page with the given id and refreshes its
// last-modified timestamp.
func (s *PageStore) Update(id string, patch PagePatch) (Page, error) {
	c := s.cs
	c.mu.Lock()
	idx := -1
	for i, p := range s.pages {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return Page{}, ErrNotFound
	}
	p := &s.pages[idx]
	if patch.Title != nil {
		if t := strings.TrimSpace(*patch.Title); t != "" {
			p.Title = t
		}
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.HTML != nil {
		p.HTML = *patch.HTML
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.ShowInNav != nil {
		p.ShowInNav = *patch.ShowInNav
	}
	p.LastModified = c.timestamp()
	updated := *p
	err := c.persistLocked(pagesKey, s.pages)
	c.mu.Unlock()
	if err != nil {
		return Page{}, err
	}
	c.notify(Notification{Title: "Page Updated", Message: updated.Title + " saved.", Icon: "check_circle", Severity: SeveritySuccess})
	c.fireChange()
	return updated, nil
}

// Delete removes the page with the given id.
func (s *PageStore) Delete(id string) error {
	c := s.cs
	c.mu.Lock()
	idx := -1
	for i, p := range s.pages {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	removed := s.pages[idx]
	s.pages = append(s.pages[:idx], s.pages[idx+1:]...)
	err := c.persistLocked(pagesKey, s.pages)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(Notification{Title: "Page Removed", Message: removed.Title + " deleted.", Icon: "delete", Severity: SeverityWarning})
	c.fireChange()
	return nil
}

// --- posts ---

// List returns all posts in insertion order, drafts included.
func (s *PostStore) List() []Post {
	s.cs.mu.Lock()
	defer s.cs.mu.Unlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// ListPublic returns only publicly visible posts.
func (s *PostStore) ListPublic() []Post {
	s.cs.mu.Lock()
	defer s.cs.mu.Unlock()
	var out []Post
	for _, p := range s.posts {
		if p.Public() {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the post with the given id.
func (s *PostStore) Get(id string) (Post, error) {
	s.cs.mu.Lock()
	defer s.cs.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// BySlug returns the post with the given route key.
func (s *PostStore) BySlug(slug string) (Post, bool) {
	s.cs.mu.Lock()
	defer s.cs.mu.Unlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// materializeLocked fills a post record from a draft. Used by Create and by
// preview rendering, which must produce the same record without persisting.
func (c *ContentStore) materializeLocked(draft PostDraft, id, slug, createdAt string) Post {
	now := c.timestamp()
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "Untitled Post"
	}
	content := draft.Content
	description := strings.TrimSpace(draft.Description)
	if description == "" && content != "" {
		description = Truncate(content, 120)
	}
	html := draft.HTML
	if html == "" {
		html = "<p>" + strings.ReplaceAll(content, "\n", "<br>") + "</p>"
	}
	author := strings.TrimSpace(draft.Author)
	if author == "" {
		author = "admin"
	}
	perms := Permissions{Comment: true, Visibility: VisibilityPublic, Share: true}
	if draft.Permissions != nil {
		perms = *draft.Permissions
		if perms.Visibility == "" {
			perms.Visibility = VisibilityPublic
		}
	}
	post := Post{
		ID:          id,
		Title:       title,
		Slug:        slug,
		Description: description,
		HTML:        html,
		Content:     content,
		Category:    draft.Category,
		Tags:        FilterEmpty(draft.Tags),
		Author:      author,
		Thumbnail:   draft.Thumbnail,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
		ScheduledAt: draft.ScheduledAt,
		Permissions: perms,
	}
	post.SEO = c.defaultSEO(post)
	if draft.SEO != nil {
		post.SEO = mergeSEO(*draft.SEO, post.SEO)
	}
	return post
}

func (c *ContentStore) defaultSEO(p Post) SEO {
	desc := p.Description
	if desc == "" {
		desc = Truncate(p.Content, 160)
	}
	return SEO{
		MetaTitle:       p.Title,
		MetaDescription: desc,
		CanonicalURL:    c.siteURL + "/" + p.Slug,
		Image:           p.Thumbnail,
		Keywords:        p.Tags,
		SchemaType:      "Article",
	}
}

// mergeSEO overlays the caller's values on the defaults, keeping defaults
// for zero fields.
func mergeSEO(override, defaults SEO) SEO {
	out := defaults
	if override.MetaTitle != "" {
		out.MetaTitle = override.MetaTitle
	}
	if override.MetaDescription != "" {
		out.MetaDescription = override.MetaDescription
	}
	if override.CanonicalURL != "" {
		out.CanonicalURL = override.CanonicalURL
	}
	if override.Image != "" {
		out.Image = override.Image
	}
	if len(override.Keywords) > 0 {
		out.Keywords = override.Keywords
	}
	if override.SchemaType != "" {
		out.SchemaType = override.SchemaType
	}
	return out
}

// Create stores a new post with defaults filled in.
func (s *PostStore) Create(draft PostDraft) (Post, error) {
	c := s.cs
	c.mu.Lock()
	id := c.newID()
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "Untitled Post"
	}
	slug := c.allocateSlugLocked(PostPrefix, title, id)
	post := c.materializeLocked(draft, id, slug, c.timestamp())
	s.posts = append(s.posts, post)
	err := c.persistLocked(postsKey, s.posts)
	c.mu.Unlock()
	if err != nil {
		return Post{}, err
	}
	c.notify(Notification{Title: post.Title, Message: "New post created", Icon: "post_add", Severity: SeveritySuccess})
	c.fireChange()
	return post, nil
}

// Update merges patch into the post with the given id. The id, slug and
// creation timestamp never change.
func (s *PostStore) Update(id string, patch PostPatch) (Post, error) {
	c := s.cs
	c.mu.Lock()
	idx := -1
	for i, p := range s.posts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return Post{}, ErrNotFound
	}
	p := &s.posts[idx]
	if patch.Title != nil {
		if t := strings.TrimSpace(*patch.Title); t != "" {
			p.Title = t
		}
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.HTML != nil {
		p.HTML = *patch.HTML
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = *patch.Thumbnail
	}
	if patch.ScheduledAt != nil {
		p.ScheduledAt = *patch.ScheduledAt
	}
	if patch.Tags != nil {
		p.Tags = FilterEmpty(*patch.Tags)
	}
	if patch.Permissions != nil {
		p.Permissions = *patch.Permissions
		if p.Permissions.Visibility == "" {
			p.Permissions.Visibility = VisibilityPublic
		}
	}
	if patch.SEO != nil {
		p.SEO = mergeSEO(*patch.SEO, c.defaultSEO(*p))
	}
	p.UpdatedAt = c.timestamp()
	updated := *p
	err := c.persistLocked(postsKey, s.posts)
	c.mu.Unlock()
	if err != nil {
		return Post{}, err
	}
	c.notify(Notification{Title: updated.Title, Message: "Post updated", Icon: "edit", Severity: SeveritySuccess})
	c.fireChange()
	return updated, nil
}

// Delete removes the post with the given id.
func (s *PostStore) Delete(id string) error {
	c := s.cs
	c.mu.Lock()
	idx := -1
	for i, p := range s.posts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	removed := s.posts[idx]
	s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	err := c.persistLocked(postsKey, s.posts)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(Notification{Title: removed.Title, Message: "Post deleted", Icon: "delete", Severity: SeverityWarning})
	c.fireChange()
	return nil
}

// PublishDue flips posts whose schedule has passed from draft or scheduled
// visibility to public, refreshing their updated timestamp. Re-checking an
// already public post is a no-op, so running it repeatedly is safe. It
// returns the posts that changed.
func (s *PostStore) PublishDue(now time.Time) ([]Post, error) {
	return s.publishDue(now, true)
}

// publishDue is PublishDue with the change callback optional. The background
// publish ticker skips it: the callback mutates derived state that only the
// event loop may touch, so the ticker hands its results to the host instead.
func (s *PostStore) publishDue(now time.Time, fire bool) ([]Post, error) {
	c := s.cs
	c.mu.Lock()
	var published []Post
	for i := range s.posts {
		p := &s.posts[i]
		if p.ScheduledAt == "" {
			continue
		}
		if v := p.Permissions.Visibility; v != VisibilityDraft && v != VisibilityScheduled {
			continue
		}
		due, err := time.Parse(time.RFC3339, p.ScheduledAt)
		if err != nil {
			c.log.Warn("unparseable schedule, skipping", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		if due.After(now) {
			continue
		}
		p.Permissions.Visibility = VisibilityPublic
		p.UpdatedAt = now.UTC().Format(time.RFC3339)
		published = append(published, *p)
	}
	var err error
	if len(published) > 0 {
		err = c.persistLocked(postsKey, s.posts)
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(published) > 0 {
		for _, p := range published {
			c.notify(Notification{Title: p.Title, Message: "Scheduled post published", Icon: "schedule", Severity: SeverityInfo})
		}
		if fire {
			c.fireChange()
		}
	}
	return published, nil
}
