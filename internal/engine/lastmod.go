package engine

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/fullstackmenu/stackdocs/internal/logfields"
)

// LastModifiedFunc reports when a content file last changed. A zero time means unknown.
type LastModifiedFunc func(path string) time.Time

// FileLastModified uses the file's mtime.
func FileLastModified(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

// GitLastModified returns the commit time of the last commit touching a file
// when dir lies inside a git repository, and falls back to FileLastModified
// for untracked files or when there is no repository.
func GitLastModified(dir string) LastModifiedFunc {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return FileLastModified
	}
	wt, err := repo.Worktree()
	if err != nil {
		return FileLastModified
	}
	root := wt.Filesystem.Root()
	slog.Debug("Using git history for last-modified times", logfields.Path(root))

	// go-git repositories are not safe for concurrent log walks.
	var mu sync.Mutex
	return func(path string) time.Time {
		abs, err := filepath.Abs(path)
		if err != nil {
			return FileLastModified(path)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			return FileLastModified(path)
		}
		rel = filepath.ToSlash(rel)

		mu.Lock()
		defer mu.Unlock()
		iter, err := repo.Log(&git.LogOptions{FileName: &rel})
		if err != nil {
			return FileLastModified(path)
		}
		defer iter.Close()
		c, err := iter.Next()
		if err != nil {
			return FileLastModified(path)
		}
		return c.Committer.When
	}
}
