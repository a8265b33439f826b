package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestFSStore_PutGetDelete(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	url, err := store.Put(ctx, "figures/a.png", strings.NewReader("png-bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if url != "/media/figures/a.png" {
		t.Errorf("Expected URL /media/figures/a.png, got %s", url)
	}

	rc, err := store.Get(ctx, "figures/a.png")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "png-bytes" {
		t.Errorf("Expected stored bytes, got %q", body)
	}

	if err := store.Delete(ctx, "figures/a.png"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "figures/a.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"abc.png", "abc.png", false},
		{"/abc.png", "abc.png", false},
		{"a/./b.png", "a/b.png", false},
		{"", "", true},
		{"../etc/passwd", "", true},
		{"a/../../b", "", true},
		{"..", "", true},
		{`a\b`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := CleanKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CleanKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CleanKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

type failingReader struct{ n int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n == 0 {
		return 0, errors.New("connection reset")
	}
	n := copy(p, strings.Repeat("x", r.n))
	r.n = 0
	return n, nil
}

func TestFSStore_PutFailureLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir, "/media")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Put(ctx, "a.png", &failingReader{n: 4}, 100, "image/png"); err == nil {
		t.Fatal("Expected Put to fail on a broken reader")
	}
	if _, err := store.Get(ctx, "a.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a truncated upload, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected an empty media directory, got %d entries", len(entries))
	}
}
