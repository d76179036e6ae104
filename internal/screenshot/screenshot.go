// Package screenshot stores the audit trail of claim pages.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Archive stores a PNG under a slash-separated relative name and returns where it went
type Archive interface {
	Save(ctx context.Context, name string, png []byte) (string, error)
}

// FileName turns an offer title into a file name. The suffix is derived from
// the exact title, so titles that slug alike keep separate files.
func FileName(title string) string {
	s := slug.Make(title)
	if s == "" {
		s = "untitled"
	}
	sum := uuid.NewSHA1(uuid.NameSpaceURL, []byte(title)).String()
	return s + "-" + sum[:8] + ".png"
}

// TimeName names run-level screenshots after their capture time
func TimeName(t time.Time) string {
	return t.Format("2006-01-02_15-04-05") + ".png"
}

// Name joins the parts of a screenshot name
func Name(parts ...string) string {
	return path.Join(parts...)
}

// Dir writes screenshots below a local directory
type Dir struct {
	root string
}

// NewDir creates an archive rooted at root
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Save(ctx context.Context, name string, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := filepath.Join(d.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := os.WriteFile(p, png, 0644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return p, nil
}

// Multi saves to every archive; the first location is returned
type Multi []Archive

func (m Multi) Save(ctx context.Context, name string, png []byte) (string, error) {
	var first string
	var errs []error
	for _, a := range m {
		loc, err := a.Save(ctx, name, png)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if first == "" {
			first = loc
		}
	}
	return first, errors.Join(errs...)
}
