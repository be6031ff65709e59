package sitekit

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

// Persisted session key.
const sessionKey = "authUser"

// ErrInvalidCredentials is returned by Login on a failed credential check.
var ErrInvalidCredentials = errors.New("sitekit: invalid credentials")

// Credentials is the single fixed identity the session accepts. This is a
// demo login, not a security boundary: one equality check, no hashing, no
// rate limiting.
type Credentials struct {
	Username string
	Password string
}

// Session tracks the logged-in admin. The persisted identity is signed with
// securecookie so a tampered value is detected on load and treated as
// absent. A single instance is owned by the App.
type Session struct {
	kv       kv.Store
	codec    *securecookie.SecureCookie
	creds    Credentials
	log      *zap.Logger
	notifier Notifier
	user     *User
	onChange func(loggedIn bool)
}

// NewSession loads any persisted identity from store. secret signs the
// persisted value; corrupt or tampered state falls back to logged out.
// The configured username is normalized the same way submitted ones are,
// so a mixed-case configured name still matches.
func NewSession(store kv.Store, secret string, creds Credentials, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	creds.Username = strings.ToLower(strings.TrimSpace(creds.Username))
	s := &Session{
		kv:    store,
		codec: securecookie.New([]byte(secret), nil),
		creds: creds,
		log:   log,
	}
	s.load()
	return s
}

// SetNotifier sets the collaborator that receives login/logout events.
func (s *Session) SetNotifier(n Notifier) { s.notifier = n }

// OnChange registers the callback fired after login and logout. The App
// uses it to toggle the admin navigation entry and route.
func (s *Session) OnChange(fn func(loggedIn bool)) { s.onChange = fn }

func (s *Session) load() {
	raw, ok, err := s.kv.Get(sessionKey)
	if err != nil {
		s.log.Warn("read session failed, starting logged out", zap.Error(err))
		return
	}
	if !ok || raw == "" {
		return
	}
	var user User
	if err := s.codec.Decode(sessionKey, raw, &user); err != nil {
		s.log.Warn("invalid persisted session, starting logged out", zap.Error(err))
		return
	}
	s.user = &user
}

// Current returns the logged-in identity, or nil when logged out.
func (s *Session) Current() *User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether an identity is present.
func (s *Session) LoggedIn() bool { return s.user != nil }

// Login checks the credentials and persists the identity on success.
// The username is trimmed and lowercased before comparison.
func (s *Session) Login(username, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	if !userOK || !passOK {
		s.notify(Notification{
			Title:    "Login Failed",
			Message:  "Invalid login attempt for \"" + username + "\"",
			Icon:     "error",
			Severity: SeverityError,
		})
		return ErrInvalidCredentials
	}

	user := User{Username: username}
	encoded, err := s.codec.Encode(sessionKey, user)
	if err != nil {
		return err
	}
	if err := s.kv.Set(sessionKey, encoded); err != nil {
		return err
	}
	s.user = &user

	s.notify(Notification{
		Title:    "Login Successful",
		Message:  "Welcome back, " + username + "!",
		Icon:     "check_circle",
		Severity: SeveritySuccess,
		Sound:    true,
	})
	if s.onChange != nil {
		s.onChange(true)
	}
	return nil
}

// Logout clears the identity. Logging out while logged out is a no-op.
func (s *Session) Logout() error {
	if s.user == nil {
		return nil
	}
	if err := s.kv.Delete(sessionKey); err != nil {
		return err
	}
	s.user = nil

	s.notify(Notification{
		Title:    "Logout Successful",
		Message:  "You have been logged out.",
		Icon:     "logout",
		Severity: SeverityInfo,
	})
	if s.onChange != nil {
		s.onChange(false)
	}
	return nil
}

func (s *Session) notify(n Notification) {
	if s.notifier != nil {
		s.notifier.Show(n)
	}
}
