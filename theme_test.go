package sitekit

import (
	"testing"

	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

func TestThemeDefault(t *testing.T) {
	m := NewThemeManager(kv.NewMemory(), "", zap.NewNop())
	if m.Current() != ThemeLight {
		t.Errorf("default theme = %q", m.Current())
	}
	m = NewThemeManager(kv.NewMemory(), ThemeDark, zap.NewNop())
	if m.Current() != ThemeDark {
		t.Errorf("configured default = %q", m.Current())
	}
}

func TestThemeToggle(t *testing.T) {
	mem := kv.NewMemory()
	m := NewThemeManager(mem, "", zap.NewNop())
	var got []Notification
	m.SetNotifier(NotifierFunc(func(n Notification) { got = append(got, n) }))

	if next := m.Toggle(); next != ThemeDark {
		t.Errorf("first toggle = %q", next)
	}
	if raw, _, _ := mem.Get("theme"); raw != ThemeDark {
		t.Errorf("persisted = %q", raw)
	}
	if next := m.Toggle(); next != ThemeLight {
		t.Errorf("second toggle = %q", next)
	}
	if len(got) != 2 || got[0].Message != "Dark Mode Enabled" || got[1].Message != "Light Mode Enabled" {
		t.Errorf("notifications = %+v", got)
	}
}

func TestThemePersistsAcrossRestart(t *testing.T) {
	mem := kv.NewMemory()
	NewThemeManager(mem, "", zap.NewNop()).Toggle()
	again := NewThemeManager(mem, "", zap.NewNop())
	if again.Current() != ThemeDark {
		t.Errorf("theme after restart = %q", again.Current())
	}
}

func TestThemeIgnoresGarbage(t *testing.T) {
	mem := kv.NewMemory()
	mem.Set("theme", "neon")
	m := NewThemeManager(mem, "", zap.NewNop())
	if m.Current() != ThemeLight {
		t.Errorf("theme = %q, want light fallback", m.Current())
	}
}
