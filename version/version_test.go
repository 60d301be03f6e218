package version

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestChecker(t *testing.T, tag string, calls *int) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		_ = json.NewEncoder(w).Encode(relesasesInfoResponse{LatestVersion: tag})
	}))
	t.Cleanup(srv.Close)
	return &Checker{
		client:     srv.Client(),
		releaseURL: srv.URL,
		cachePath:  filepath.Join(t.TempDir(), "lispsole", "version.json"),
		now:        time.Now,
	}
}

func TestChecker_IsLatestVersion(t *testing.T) {
	tests := []struct {
		name         string
		tag          string
		expectLatest bool
	}{
		{name: "same version", tag: VERSION, expectLatest: true},
		{name: "newer release", tag: "v99.0.0", expectLatest: false},
		{name: "older release", tag: "v0.0.1", expectLatest: true},
		{name: "invalid tag", tag: "latest", expectLatest: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			c := newTestChecker(t, tt.tag, &calls)
			isLatest, latest, err := c.IsLatestVersion()
			if err != nil {
				t.Fatalf("IsLatestVersion() error = %v", err)
			}
			if isLatest != tt.expectLatest {
				t.Errorf("IsLatestVersion() = %v, want %v", isLatest, tt.expectLatest)
			}
			if latest != tt.tag {
				t.Errorf("latest version = %q, want %q", latest, tt.tag)
			}
		})
	}
}

func TestChecker_UsesCache(t *testing.T) {
	var calls int
	c := newTestChecker(t, "v99.0.0", &calls)

	for range 2 {
		if _, _, err := c.IsLatestVersion(); err != nil {
			t.Fatalf("IsLatestVersion() error = %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("release endpoint called %d times, want 1", calls)
	}

	// キャッシュが古くなれば問い合わせ直す
	c.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	if _, _, err := c.IsLatestVersion(); err != nil {
		t.Fatalf("IsLatestVersion() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("release endpoint called %d times, want 2", calls)
	}
}

func TestChecker_BrokenCache(t *testing.T) {
	var calls int
	c := newTestChecker(t, VERSION, &calls)
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.cachePath, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.IsLatestVersion(); err != nil {
		t.Fatalf("IsLatestVersion() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("release endpoint called %d times, want 1", calls)
	}
}

func TestPrintNoteLatestVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintNoteLatestVersion(&buf, "v9.9.9")
	if !strings.Contains(buf.String(), "lispsole v9.9.9 (you have "+VERSION+")") {
		t.Errorf("note = %q", buf.String())
	}
}
