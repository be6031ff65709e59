package sitekit

// Visibility controls who can see a post. Scheduled and draft posts become
// public through the scheduled publish check, never at read time.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityDraft     Visibility = "draft"
	VisibilityScheduled Visibility = "scheduled"
	VisibilityAdminOnly Visibility = "admin-only"
	VisibilityMembers   Visibility = "members"
)

// Page is a navigable content page. The slug is assigned once at creation
// and doubles as the page's route key in the "page/" namespace.
type Page struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Content      string `json:"content"`
	HTML         string `json:"html,omitempty"`
	Category     string `json:"category,omitempty"`
	ShowInNav    bool   `json:"showInNav"`
	LastModified string `json:"lastModified"`
}

// Permissions holds per-post flags. Visibility interacts with scheduled
// publishing; the rest are passed through to the views.
type Permissions struct {
	Pin        bool       `json:"pin"`
	Comment    bool       `json:"comment"`
	Visibility Visibility `json:"visibility"`
	Share      bool       `json:"share"`
	Adult      bool       `json:"adultery"`
}

// SEO carries per-post metadata for the <head> of a rendered post view.
type SEO struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	CanonicalURL    string   `json:"canonicalUrl"`
	Image           string   `json:"image,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	SchemaType      string   `json:"schemaType"`
}

// Post is a blog-style entry. Slug lives in the "post/" namespace.
// CreatedAt is set once; UpdatedAt moves on every update.
type Post struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	HTML        string      `json:"postHtml"`
	Content     string      `json:"content"`
	Category    string      `json:"category,omitempty"`
	Tags        []string    `json:"tags"`
	Author      string      `json:"author"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	ScheduledAt string      `json:"scheduledAt,omitempty"`
	Permissions Permissions `json:"permissions"`
	SEO         SEO         `json:"seo"`
}

// Public reports whether the post is visible to anonymous readers.
func (p Post) Public() bool {
	return p.Permissions.Visibility == VisibilityPublic
}

// User identifies the logged-in admin. Fields are exported so the session
// codec can encode the value.
type User struct {
	Username string `json:"username"`
}

// NavEntry is one item of the navigation menu. Route is the route key the
// entry navigates to; for dynamic entries it equals the page slug.
type NavEntry struct {
	ID        string
	Label     string
	Route     string
	Kind      string // "page", "system" or "admin"
	ShowInNav bool
}

// Image describes a processed thumbnail asset on disk.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploadedAt"`
}
