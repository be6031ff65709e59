package sitekit

import (
	"strconv"
	"testing"
	"time"
)

func TestDispatcherDebounce(t *testing.T) {
	var got []Notification
	d := NewDispatcher(NotifierFunc(func(n Notification) { got = append(got, n) }), time.Second)
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	n := Notification{Title: "Saved", Message: "done", Icon: "check_circle", Severity: SeveritySuccess}
	d.Show(n)
	d.Show(n) // identical, within the window
	if len(got) != 1 {
		t.Fatalf("shown %d times, want 1", len(got))
	}

	now = now.Add(500 * time.Millisecond)
	d.Show(n)
	if len(got) != 1 {
		t.Fatalf("duplicate inside window was shown")
	}

	now = now.Add(600 * time.Millisecond)
	d.Show(n)
	if len(got) != 2 {
		t.Fatalf("notification after window was suppressed")
	}
}

func TestDispatcherDistinctNotifications(t *testing.T) {
	var got []Notification
	d := NewDispatcher(NotifierFunc(func(n Notification) { got = append(got, n) }), time.Second)
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	base := Notification{Title: "Saved", Message: "done", Icon: "check_circle", Severity: SeveritySuccess}
	d.Show(base)

	differing := []Notification{
		{Title: "Other", Message: "done", Icon: "check_circle", Severity: SeveritySuccess},
		{Title: "Saved", Message: "other", Icon: "check_circle", Severity: SeveritySuccess},
		{Title: "Saved", Message: "done", Icon: "error", Severity: SeveritySuccess},
		{Title: "Saved", Message: "done", Icon: "check_circle", Severity: SeverityError},
	}
	for _, n := range differing {
		d.Show(n)
	}
	if len(got) != 1+len(differing) {
		t.Errorf("shown %d times, want %d", len(got), 1+len(differing))
	}
}

func TestDispatcherPrunesExpiredFingerprints(t *testing.T) {
	d := NewDispatcher(NotifierFunc(func(Notification) {}), time.Second)
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		d.Show(Notification{Title: "Post " + strconv.Itoa(i), Severity: SeveritySuccess})
	}
	if len(d.lastShown) != 50 {
		t.Fatalf("tracked %d fingerprints, want 50", len(d.lastShown))
	}

	now = now.Add(2 * time.Second)
	d.Show(Notification{Title: "Fresh", Severity: SeverityInfo})
	if len(d.lastShown) != 1 {
		t.Errorf("tracked %d fingerprints after the window passed, want 1", len(d.lastShown))
	}
}

func TestDispatcherDefaultWindow(t *testing.T) {
	d := NewDispatcher(NotifierFunc(func(Notification) {}), 0)
	if d.window != time.Second {
		t.Errorf("window = %v, want 1s", d.window)
	}
}

func TestNotifierFunc(t *testing.T) {
	var got Notification
	NotifierFunc(func(n Notification) { got = n }).Show(Notification{Title: "x"})
	if got.Title != "x" {
		t.Errorf("got = %+v", got)
	}
}
