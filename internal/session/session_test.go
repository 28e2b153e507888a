package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	valid := []string{"main", "work-2", "a", "user_1", strings.Repeat("x", 64)}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "Main", "has space", "has/slash", "..", strings.Repeat("x", 65)}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}

func TestPathsUnderSessionDir(t *testing.T) {
	dir := Dir("work")
	for _, p := range []string{LockPath("work"), TokenPath("work"), CacheDBPath("work"), LogPath("work")} {
		if !strings.HasPrefix(p, dir) {
			t.Errorf("path %q not under session dir %q", p, dir)
		}
	}
	if filepath.Base(CacheDBPath("work")) != "cache.db" {
		t.Errorf("cache db path = %q", CacheDBPath("work"))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := LoadToken("main"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("LoadToken before save = %v, want ErrNoToken", err)
	}

	if err := SaveToken("main", "tok-123"); err != nil {
		t.Fatal(err)
	}
	got, err := LoadToken("main")
	if err != nil {
		t.Fatal(err)
	}
	if got != "tok-123" {
		t.Errorf("token = %q, want tok-123", got)
	}

	if err := ClearToken("main"); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken("main"); !errors.Is(err, ErrNoToken) {
		t.Errorf("LoadToken after clear = %v, want ErrNoToken", err)
	}
	// Clearing twice is fine.
	if err := ClearToken("main"); err != nil {
		t.Errorf("second ClearToken = %v, want nil", err)
	}
}
