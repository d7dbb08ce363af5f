package runner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/KuaaMU/codesage/pkg/review"
)

// gitDirName is always excluded from discovery.
const gitDirName = ".git"

// Discover enumerates eligible files under root: regular files whose
// extension is on the allow-list (without dots), excluding anything matched
// by a .gitignore at the root or in a nested directory. Enumeration order is
// not guaranteed to be stable. Unreadable directory entries are logged and
// skipped.
func Discover(root string, extensions []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", review.ErrIO, root, err)
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	ignores := &ignoreSet{logger: logger}
	ignores.addDir(root)

	var files []string

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable entry", "path", path, "error", err)

			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if d.Name() == gitDirName {
				return filepath.SkipDir
			}

			if path != root {
				if ignores.matches(path) {
					return filepath.SkipDir
				}

				ignores.addDir(path)
			}

			return nil
		}

		if ignores.matches(path) {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := allowed[ext]; !ok {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: walk %s: %v", review.ErrIO, root, walkErr)
	}

	return files, nil
}

// ignoreSet accumulates the .gitignore files met while walking the tree.
// Each file's patterns apply only to paths under its own directory, matched
// relative to that directory.
type ignoreSet struct {
	entries []ignoreEntry
	logger  *slog.Logger
}

type ignoreEntry struct {
	base    string
	matcher *gitignore.GitIgnore
}

// addDir compiles dir/.gitignore when present. A malformed file is logged
// and skipped rather than failing discovery.
func (s *ignoreSet) addDir(dir string) {
	path := filepath.Join(dir, ".gitignore")

	if _, err := os.Stat(path); err != nil {
		return
	}

	matcher, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		s.logger.Warn("ignoring unparsable .gitignore", "path", path, "error", err)

		return
	}

	s.entries = append(s.entries, ignoreEntry{base: dir, matcher: matcher})
}

// matches reports whether any collected .gitignore excludes path.
func (s *ignoreSet) matches(path string) bool {
	for _, entry := range s.entries {
		rel, err := filepath.Rel(entry.base, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}

		if entry.matcher.MatchesPath(rel) {
			return true
		}
	}

	return false
}
