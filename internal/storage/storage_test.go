package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"diagen/internal/render"
)

func artifact(name string, format render.Format, data string) render.Artifact {
	return render.Artifact{
		ID:       uuid.New(),
		Diagram:  name,
		Format:   format,
		Bytes:    []byte(data),
		Checksum: strings.Repeat("ab", 32),
	}
}

func TestFileStore_PutAndList(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}

	e1, err := s.Put(artifact("Web Shop", render.FormatDot, "digraph {}"))
	if err != nil {
		t.Fatal(err)
	}
	e2, err := s.Put(artifact("Web Shop", render.FormatSVG, "<svg/>"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(e1.File, "web-shop-") || !strings.HasSuffix(e1.File, ".dot") {
		t.Errorf("file = %q", e1.File)
	}
	data, err := os.ReadFile(filepath.Join(s.base, e1.File))
	if err != nil || string(data) != "digraph {}" {
		t.Errorf("artifact bytes = %q, %v", data, err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].ID != e1.ID || entries[1].ID != e2.ID {
		t.Errorf("manifest order wrong: %+v", entries)
	}
	if entries[1].Format != "svg" {
		t.Errorf("format = %q", entries[1].Format)
	}
}

func TestFileStore_EmptyList(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	entries, err := s.List()
	if err != nil || entries != nil {
		t.Errorf("List = %+v, %v", entries, err)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Web Shop", "web-shop"},
		{"API  /  Gateway!", "api-gateway"},
		{"", "diagram"},
		{"---", "diagram"},
		{"Already-Fine-123", "already-fine-123"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
