package sitekit

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/f2pweb/sitekit/kv"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testCreds() Credentials {
	return Credentials{Username: "admin", Password: "1234"}
}

func TestLoginSuccess(t *testing.T) {
	mem := kv.NewMemory()
	s := NewSession(mem, testSecret, testCreds(), zap.NewNop())
	if s.LoggedIn() {
		t.Fatal("fresh session is logged in")
	}
	if err := s.Login("admin", "1234"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.LoggedIn() {
		t.Fatal("not logged in after Login")
	}
	if u := s.Current(); u == nil || u.Username != "admin" {
		t.Errorf("Current = %+v", u)
	}
	if _, ok, _ := mem.Get("authUser"); !ok {
		t.Error("identity not persisted")
	}
}

func TestLoginNormalizesUsername(t *testing.T) {
	s := NewSession(kv.NewMemory(), testSecret, testCreds(), zap.NewNop())
	if err := s.Login("  ADMIN  ", "1234"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u := s.Current(); u.Username != "admin" {
		t.Errorf("Username = %q", u.Username)
	}
}

func TestLoginMixedCaseConfiguredUsername(t *testing.T) {
	creds := Credentials{Username: "  Admin  ", Password: "1234"}
	s := NewSession(kv.NewMemory(), testSecret, creds, zap.NewNop())
	for _, submitted := range []string{"admin", "Admin", "ADMIN"} {
		if err := s.Login(submitted, "1234"); err != nil {
			t.Errorf("Login(%q) with configured %q: %v", submitted, creds.Username, err)
		}
		if u := s.Current(); u == nil || u.Username != "admin" {
			t.Errorf("Current after Login(%q) = %+v", submitted, u)
		}
		if err := s.Logout(); err != nil {
			t.Fatalf("Logout: %v", err)
		}
	}
}

func TestLoginFailure(t *testing.T) {
	s := NewSession(kv.NewMemory(), testSecret, testCreds(), zap.NewNop())
	var got []Notification
	s.SetNotifier(NotifierFunc(func(n Notification) { got = append(got, n) }))

	cases := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"other", "1234"},
		{"", ""},
	}
	for _, c := range cases {
		if err := s.Login(c.user, c.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) = %v, want ErrInvalidCredentials", c.user, c.pass, err)
		}
		if s.LoggedIn() {
			t.Fatalf("logged in after failed Login(%q, %q)", c.user, c.pass)
		}
	}
	if len(got) != len(cases) || got[0].Title != "Login Failed" {
		t.Errorf("notifications = %+v", got)
	}
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	mem := kv.NewMemory()
	first := NewSession(mem, testSecret, testCreds(), zap.NewNop())
	if err := first.Login("admin", "1234"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	second := NewSession(mem, testSecret, testCreds(), zap.NewNop())
	if !second.LoggedIn() {
		t.Fatal("identity lost across restart")
	}
	if u := second.Current(); u.Username != "admin" {
		t.Errorf("Username = %q", u.Username)
	}
}

func TestSessionTamperedValue(t *testing.T) {
	mem := kv.NewMemory()
	first := NewSession(mem, testSecret, testCreds(), zap.NewNop())
	first.Login("admin", "1234")

	raw, _, _ := mem.Get("authUser")
	mem.Set("authUser", raw+"x")

	second := NewSession(mem, testSecret, testCreds(), zap.NewNop())
	if second.LoggedIn() {
		t.Fatal("tampered session value was accepted")
	}
}

func TestSessionWrongSecret(t *testing.T) {
	mem := kv.NewMemory()
	first := NewSession(mem, testSecret, testCreds(), zap.NewNop())
	first.Login("admin", "1234")

	second := NewSession(mem, "another-secret-another-secret!!!", testCreds(), zap.NewNop())
	if second.LoggedIn() {
		t.Fatal("session signed with a different secret was accepted")
	}
}

func TestLogout(t *testing.T) {
	mem := kv.NewMemory()
	s := NewSession(mem, testSecret, testCreds(), zap.NewNop())
	var changes []bool
	s.OnChange(func(loggedIn bool) { changes = append(changes, loggedIn) })

	// Logging out while logged out is a no-op and fires nothing.
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout while out: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("onChange fired on no-op logout: %v", changes)
	}

	s.Login("admin", "1234")
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.LoggedIn() {
		t.Fatal("still logged in after Logout")
	}
	if _, ok, _ := mem.Get("authUser"); ok {
		t.Error("persisted identity survived Logout")
	}
	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Errorf("onChange sequence = %v, want [true false]", changes)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := NewSession(kv.NewMemory(), testSecret, testCreds(), zap.NewNop())
	s.Login("admin", "1234")
	u := s.Current()
	u.Username = "mutated"
	if s.Current().Username != "admin" {
		t.Error("Current exposed internal state")
	}
}
