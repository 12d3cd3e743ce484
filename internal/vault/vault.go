// Package vault reads and updates a directory of markdown documents.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/wordpace/internal/model"
)

// Vault is a directory tree of markdown documents. Paths handed out are
// slash-separated and relative to the root.
type Vault struct {
	root         string
	goalProperty string
	exclude      map[string]bool
}

// Stamp identifies one version of a file on disk.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

// Open validates root and returns a vault. goalProperty names the front
// matter key that marks a document as goal-tracked and holds its goal.
func Open(root, goalProperty string, exclude []string) (*Vault, error) {
	if root == "" {
		return nil, fmt.Errorf("vault directory is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault %s is not a directory", root)
	}
	v := &Vault{root: root, goalProperty: goalProperty, exclude: map[string]bool{}}
	for _, name := range exclude {
		if name = strings.TrimSpace(name); name != "" {
			v.exclude[name] = true
		}
	}
	return v, nil
}

// Root returns the vault directory.
func (v *Vault) Root() string {
	return v.root
}

// SetGoalProperty changes the tracked-document marker.
func (v *Vault) SetGoalProperty(name string) {
	v.goalProperty = name
}

func (v *Vault) walk(ctx context.Context, fn func(rel, full string, d fs.DirEntry) error) error {
	return filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		name := d.Name()
		if d.IsDir() {
			if path != v.root && (strings.HasPrefix(name, ".") || v.exclude[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return nil //nolint:nilerr // outside the root
		}
		return fn(filepath.ToSlash(rel), path, d)
	})
}

// Documents lists every markdown document with its tracking flag and goal.
// Documents whose front matter cannot be read are listed untracked.
func (v *Vault) Documents(ctx context.Context) ([]model.Document, error) {
	var docs []model.Document
	err := v.walk(ctx, func(rel, full string, _ fs.DirEntry) error {
		doc := model.Document{Path: rel}
		data, err := os.ReadFile(full)
		if err == nil {
			if props, perr := Properties(string(data)); perr == nil {
				val := props[v.goalProperty]
				doc.Tracked = truthy(val)
				doc.Goal = numeric(val)
			}
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// ReadText returns the saved text of a document.
func (v *Vault) ReadText(_ context.Context, path string) (string, error) {
	full, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Fingerprint returns the modification stamp of every markdown document.
func (v *Vault) Fingerprint(ctx context.Context) (map[string]Stamp, error) {
	out := map[string]Stamp{}
	err := v.walk(ctx, func(rel, _ string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // vanished between listing and stat
		}
		out[rel] = Stamp{ModTime: info.ModTime(), Size: info.Size()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}
	return out, nil
}

// WriteProperty stores value under the front matter key name. The file is
// left untouched when it already holds value.
func (v *Vault) WriteProperty(path, name string, value int) (bool, error) {
	full, err := v.resolve(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	updated, changed, err := SetProperty(string(data), name, value)
	if err != nil {
		return false, fmt.Errorf("failed to update %s: %w", path, err)
	}
	if !changed {
		return false, nil
	}
	if err := writeFileAtomic(full, []byte(updated), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

func (v *Vault) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the vault", path)
	}
	return filepath.Join(v.root, clean), nil
}

// Rel converts a filesystem path into a vault path.
func (v *Vault) Rel(path string) (string, error) {
	absRoot, err := filepath.Abs(v.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve vault: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside the vault %s", path, v.root)
	}
	return filepath.ToSlash(rel), nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".wordpace-*.md")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
