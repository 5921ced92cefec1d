package publish

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"launchpad/internal/domain"
)

// Walker enumerates the project tree that gets published.
type Walker struct {
	Ignore      []string // entry names skipped at any depth
	Exclude     []string // slash-separated paths relative to the root
	MaxFileSize int64
	Logger      *slog.Logger
}

// Walk returns every publishable file under root, depth first in name order,
// with slash-separated paths and base64 content. Oversized and unreadable
// files are skipped; only an unreadable root is an error.
func (w Walker) Walk(root string) ([]domain.FileEntry, error) {
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("read project root: %w", err)
	}
	var files []domain.FileEntry
	w.walkDir(root, "", &files)
	return files, nil
}

func (w Walker) walkDir(root, rel string, files *[]domain.FileEntry) {
	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		w.Logger.Debug("skipping unreadable directory", "path", rel, "error", err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if w.ignored(name) {
			continue
		}
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}
		if slices.Contains(w.Exclude, relPath) {
			continue
		}
		if entry.IsDir() {
			w.walkDir(root, relPath, files)
			continue
		}
		if f, ok := w.readFile(filepath.Join(root, filepath.FromSlash(relPath)), relPath); ok {
			*files = append(*files, f)
		}
	}
}

func (w Walker) ignored(name string) bool {
	return strings.HasPrefix(name, ".env") || slices.Contains(w.Ignore, name)
}

func (w Walker) readFile(abs, rel string) (domain.FileEntry, bool) {
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return domain.FileEntry{}, false
	}
	if w.MaxFileSize > 0 && info.Size() > w.MaxFileSize {
		w.Logger.Debug("skipping large file", "path", rel, "size", info.Size())
		return domain.FileEntry{}, false
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		w.Logger.Debug("skipping unreadable file", "path", rel, "error", err)
		return domain.FileEntry{}, false
	}
	return domain.FileEntry{Path: rel, Content: base64.StdEncoding.EncodeToString(data)}, true
}

// excludedPaths turns file paths into walker exclusions relative to root.
// Paths outside root are dropped.
func excludedPaths(root string, paths []string) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
