package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Scratch is a per-attempt working directory for rendering output. It
// must be released on every exit path, including cancellation; Release
// is safe to call more than once.
type Scratch struct {
	Dir      string
	released bool
}

// NewScratch creates a fresh scratch directory under the system temp
// root, named diagen-<uuid8> so concurrent attempts never collide.
func NewScratch() (*Scratch, error) {
	dir := filepath.Join(os.TempDir(), "diagen-"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("sandbox: create scratch dir: %w", err)
	}
	return &Scratch{Dir: dir}, nil
}

// Release removes the scratch directory and everything in it.
func (s *Scratch) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	os.RemoveAll(s.Dir)
}

// Path joins name onto the scratch directory.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.Dir, name)
}
