package sitekit

import (
	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

// Persisted theme key.
const themeKey = "theme"

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ThemeManager tracks the light/dark preference. Anything other than the
// two known values in the persisted key falls back to the default.
type ThemeManager struct {
	kv       kv.Store
	log      *zap.Logger
	notifier Notifier
	theme    string
}

// NewThemeManager loads the persisted preference, defaulting to def
// (light when def is empty).
func NewThemeManager(store kv.Store, def string, log *zap.Logger) *ThemeManager {
	if log == nil {
		log = zap.NewNop()
	}
	if def != ThemeDark {
		def = ThemeLight
	}
	m := &ThemeManager{kv: store, log: log, theme: def}
	raw, ok, err := store.Get(themeKey)
	if err != nil {
		log.Warn("read theme failed, using default", zap.Error(err))
		return m
	}
	if ok && (raw == ThemeLight || raw == ThemeDark) {
		m.theme = raw
	}
	return m
}

// SetNotifier sets the collaborator that receives theme-switch events.
func (m *ThemeManager) SetNotifier(n Notifier) { m.notifier = n }

// Current returns the active theme.
func (m *ThemeManager) Current() string { return m.theme }

// Toggle flips the preference, persists it and returns the new theme.
func (m *ThemeManager) Toggle() string {
	if m.theme == ThemeLight {
		m.theme = ThemeDark
	} else {
		m.theme = ThemeLight
	}
	if err := m.kv.Set(themeKey, m.theme); err != nil {
		m.log.Warn("persist theme failed", zap.Error(err))
	}
	label := "Light Mode Enabled"
	icon := "light_mode"
	if m.theme == ThemeDark {
		label = "Dark Mode Enabled"
		icon = "dark_mode"
	}
	if m.notifier != nil {
		m.notifier.Show(Notification{
			Title:    "Theme Switched",
			Message:  label,
			Icon:     icon,
			Severity: SeverityInfo,
			Sound:    true,
		})
	}
	return m.theme
}
