package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/shini4i/testkit/internal/helpers"
	"github.com/spf13/afero"
)

var ErrSeedNoMatch = errors.New("seed pattern matched no files")

// exportHead writes every regular file of the HEAD commit of the repository
// containing repoDir into dest. Symlinks and submodules are skipped.
func (a *App) exportHead(repoDir, dest string) error {
	repo, err := git.PlainOpenWithOptions(repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	headRef, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}

	headCommit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return fmt.Errorf("failed to get commit object for HEAD: %w", err)
	}

	headTree, err := headCommit.Tree()
	if err != nil {
		return fmt.Errorf("failed to get tree for HEAD commit: %w", err)
	}

	a.logger.Debugf("===> Exporting [%s] into [%s]", cyan(headRef.Hash().String()[:8]), dest)

	exported := 0
	err = headTree.Files().ForEach(func(f *object.File) error {
		if f.Mode != filemode.Regular && f.Mode != filemode.Executable && f.Mode != filemode.Deprecated {
			a.logger.Debugf("▶ Skipping [%s] with mode %s", f.Name, f.Mode)
			return nil
		}

		contents, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to read %s from HEAD: %w", f.Name, err)
		}

		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if err := helpers.WriteToFile(a.fs, target, []byte(contents)); err != nil {
			return err
		}

		if f.Mode == filemode.Executable {
			if err := a.fs.Chmod(target, 0o755); err != nil {
				return err
			}
		}

		exported++
		return nil
	})
	if err != nil {
		return err
	}

	a.logger.Debugf("▶ Exported %d files", exported)
	return nil
}

// seed copies the files matching the configured patterns from origin into
// dest, keeping their path relative to origin. Files outside origin land at
// the top of dest.
func (a *App) seed(origin, dest string) error {
	for _, pattern := range a.cfg.Seeds {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(origin, pattern)
		}

		matches, err := a.globber.Glob(pattern)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to expand seed pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: %s", ErrSeedNoMatch, pattern)
		}

		for _, match := range matches {
			if err := a.seedFile(origin, dest, match); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *App) seedFile(origin, dest, source string) error {
	info, err := a.fs.Stat(source)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	rel, err := filepath.Rel(origin, source)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(source)
	}

	data, err := afero.ReadFile(a.fs, source)
	if err != nil {
		return err
	}

	a.logger.Debugf("▶ Seeding [%s]", rel)

	target := filepath.Join(dest, rel)
	if err := helpers.WriteToFile(a.fs, target, data); err != nil {
		return err
	}

	return a.fs.Chmod(target, info.Mode().Perm())
}
