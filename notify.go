package sitekit

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Severity tags a notification for the collaborator that displays it.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a fire-and-forget message emitted by the content store,
// session and theme components. How it is displayed (toast, sound,
// animation) is entirely the collaborator's business.
type Notification struct {
	Title    string
	Message  string
	Icon     string
	Severity Severity
	Duration time.Duration
	Sound    bool
}

// Notifier receives notifications. Show must not block.
type Notifier interface {
	Show(Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Show calls f.
func (f NotifierFunc) Show(n Notification) { f(n) }

// Dispatcher wraps a Notifier and suppresses duplicates: a notification
// with the same title, message, icon and severity as one shown within the
// window is dropped. Plain timestamp comparison, no timers.
type Dispatcher struct {
	mu        sync.Mutex
	next      Notifier
	window    time.Duration
	lastShown map[string]time.Time
	now       func() time.Time
}

// NewDispatcher wraps next with the given debounce window.
func NewDispatcher(next Notifier, window time.Duration) *Dispatcher {
	if window <= 0 {
		window = time.Second
	}
	return &Dispatcher{
		next:      next,
		window:    window,
		lastShown: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Show forwards n unless an identical notification was shown too recently.
func (d *Dispatcher) Show(n Notification) {
	fingerprint := n.Title + "\x00" + n.Message + "\x00" + n.Icon + "\x00" + string(n.Severity)

	d.mu.Lock()
	now := d.now()
	// Expired fingerprints are dead weight; drop them so the map tracks
	// only the current window.
	for k, t := range d.lastShown {
		if now.Sub(t) >= d.window {
			delete(d.lastShown, k)
		}
	}
	if last, ok := d.lastShown[fingerprint]; ok && now.Sub(last) < d.window {
		d.mu.Unlock()
		return
	}
	d.lastShown[fingerprint] = now
	d.mu.Unlock()

	d.next.Show(n)
}

// LogNotifier writes notifications to a zap logger. It is the default
// collaborator when no UI is attached.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier returns a Notifier backed by log.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

// Show logs the notification at a level matching its severity.
func (l *LogNotifier) Show(n Notification) {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("severity", string(n.Severity)),
	}
	switch n.Severity {
	case SeverityWarning:
		l.log.Warn(n.Message, fields...)
	case SeverityError:
		l.log.Error(n.Message, fields...)
	default:
		l.log.Info(n.Message, fields...)
	}
}
