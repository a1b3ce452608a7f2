// Package workspace provides the scoped temporary directory tree owned by a
// single pipeline run.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a uniquely named temporary directory with subtrees for raw and
// cleaned pages. Exactly one run owns a Workspace; its lifecycle is create at
// run start, release unconditionally at run end.
type Workspace struct {
	Root    string
	Pages   string
	Cleaned string
}

// New allocates a workspace under dir (the system temp directory when dir is
// empty). The UUID suffix keeps concurrent runs from ever sharing a tree.
func New(dir string) (*Workspace, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	ws := &Workspace{Root: filepath.Join(dir, "scanwash_"+uuid.NewString())}
	ws.Pages = filepath.Join(ws.Root, "pages")
	ws.Cleaned = filepath.Join(ws.Root, "cleaned")

	for _, d := range []string{ws.Pages, ws.Cleaned} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			os.RemoveAll(ws.Root)
			return nil, fmt.Errorf("create workspace: %w", err)
		}
	}
	return ws, nil
}

// Release removes the workspace tree. Errors are ignored; the tree lives
// under the temp directory and a leftover costs nothing but disk. Safe to
// call more than once.
func (w *Workspace) Release() {
	if w == nil || w.Root == "" {
		return
	}
	os.RemoveAll(w.Root)
}
