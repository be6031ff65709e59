package sitekit

import (
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

// SiteConfig holds all configuration for a sitekit site.
type SiteConfig struct {
	Name        string // Site name (default "F2P Website")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for meta tags
	Author      string // Author name

	DatabasePath string // SQLite key/value path (default "data/site.db")
	AssetDir     string // Thumbnail asset directory (default "public/uploads")

	AdminUser     string // Admin username (default "admin")
	AdminPassword string // Admin password (default "1234" — demo credential, not a security boundary)
	SessionSecret string // Required: signs the persisted session identity

	DefaultTheme string        // "light" or "dark" (default light)
	NotifyWindow time.Duration // Duplicate-notification window (default 1s)
	PublishPoll  time.Duration // Scheduled-publish staleness window (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "F2P Website"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.AssetDir == "" {
		c.AssetDir = "public/uploads"
	}
	if c.AdminUser == "" {
		c.AdminUser = "admin"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "1234"
	}
	if c.DefaultTheme == "" {
		c.DefaultTheme = ThemeLight
	}
	if c.NotifyWindow == 0 {
		c.NotifyWindow = time.Second
	}
	if c.PublishPoll == 0 {
		c.PublishPoll = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithKV uses the given store instead of opening the configured SQLite
// database. Tests pass kv.NewMemory().
func WithKV(store kv.Store) Option {
	return func(a *App) {
		a.kv = store
	}
}

// WithSurface sets the render surface the App displays views on.
func WithSurface(s Surface) Option {
	return func(a *App) {
		a.surface = s
	}
}

// WithNotifier sets the notification collaborator. It is wrapped with the
// duplicate-suppressing dispatcher either way.
func WithNotifier(n Notifier) Option {
	return func(a *App) {
		a.rawNotifier = n
	}
}

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("sitekit: required environment variable %s is not set", key)
	}
	return v
}
