package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/f2pweb/sitekit"
	"github.com/f2pweb/sitekit/views"
)

// newApp builds an App from environment variables. A nil surface leaves
// rendering off, for commands that only mutate or inspect the site.
func newApp(surface sitekit.Surface) (*sitekit.App, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	cfg := sitekit.SiteConfig{
		Name:          sitekit.EnvOr("SITE_NAME", "F2P Website"),
		URL:           sitekit.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		DatabasePath:  sitekit.EnvOr("SITE_DB", "data/site.db"),
		AdminUser:     sitekit.EnvOr("ADMIN_USER", "admin"),
		AdminPassword: sitekit.EnvOr("ADMIN_PASSWORD", "1234"),
		SessionSecret: sitekit.MustEnv("SESSION_SECRET"),
	}

	opts := []sitekit.Option{sitekit.WithLogger(log)}
	if surface != nil {
		opts = append(opts, sitekit.WithSurface(surface))
	}
	app := sitekit.New(cfg, views.Default(), opts...)
	if err := app.Start(); err != nil {
		return nil, err
	}
	return app, nil
}

func runRender(route string) error {
	app, err := newApp(sitekit.NewWriterSurface(os.Stdout))
	if err != nil {
		return err
	}
	defer app.Close()
	app.HandleLocationChange(route)
	return nil
}

func runRoutes() error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()
	for _, key := range app.Routes.Keys() {
		fmt.Println(key)
	}
	return nil
}

func runSeed() error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(app.Store.Pages.List()) > 0 || len(app.Store.Posts.List()) > 0 {
		return fmt.Errorf("site database is not empty; refusing to seed")
	}

	if _, err := app.Store.Pages.Create(sitekit.PageDraft{
		Title:   "FAQ",
		Content: "Frequently asked questions about this site.",
	}); err != nil {
		return err
	}
	if _, err := app.Store.Posts.Create(sitekit.PostDraft{
		Title:   "Hello World",
		Content: "Welcome to the first post.\nEdit or delete it from the admin dashboard.",
		Tags:    []string{"intro"},
	}); err != nil {
		return err
	}

	fmt.Println("seeded 1 page and 1 post")
	return nil
}
