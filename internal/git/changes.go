// Package git finds blueprint files changed on the current branch.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// CommandFunc runs git with args and returns its stdout
type CommandFunc func(ctx context.Context, args ...string) ([]byte, error)

// ChangeDetector detects files that have changed in git
type ChangeDetector struct {
	baseBranch string
	run        CommandFunc
}

// NewChangeDetector compares against baseBranch ("main" when empty)
func NewChangeDetector(baseBranch string) *ChangeDetector {
	if baseBranch == "" {
		baseBranch = "main"
	}
	return &ChangeDetector{baseBranch: baseBranch, run: execGit}
}

// WithCommand replaces the git runner
func (cd *ChangeDetector) WithCommand(run CommandFunc) *ChangeDetector {
	cd.run = run
	return cd
}

func execGit(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "git", args...).Output()
}

// ChangedFiles returns repository-relative paths that are modified, staged
// or committed on this branch but not in the base branch
func (cd *ChangeDetector) ChangedFiles(ctx context.Context) ([]string, error) {
	files := make(map[string]bool)
	add := func(out []byte) {
		for _, f := range strings.Split(strings.TrimSpace(string(out)), "\n") {
			if f != "" {
				files[f] = true
			}
		}
	}

	if out, err := cd.run(ctx, "diff", "--name-only"); err == nil {
		add(out)
	}
	if out, err := cd.run(ctx, "diff", "--cached", "--name-only"); err == nil {
		add(out)
	}

	out, err := cd.branchDiff(ctx)
	if err != nil {
		return nil, err
	}
	add(out)

	result := make([]string, 0, len(files))
	for f := range files {
		result = append(result, f)
	}
	sort.Strings(result)
	return result, nil
}

// branchDiff tries the local base branch, then origin/<base>, then the
// merge base, which also works in detached HEAD checkouts
func (cd *ChangeDetector) branchDiff(ctx context.Context) ([]byte, error) {
	for _, ref := range []string{cd.baseBranch, "origin/" + cd.baseBranch} {
		if out, err := cd.run(ctx, "diff", "--name-only", ref); err == nil {
			return out, nil
		}
	}

	for _, args := range [][]string{
		{"merge-base", "--fork-point", cd.baseBranch},
		{"merge-base", "HEAD", cd.baseBranch},
		{"merge-base", "HEAD", "origin/" + cd.baseBranch},
	} {
		base, err := cd.run(ctx, args...)
		if err != nil || len(base) == 0 {
			continue
		}
		return cd.run(ctx, "diff", "--name-only", strings.TrimSpace(string(base)))
	}
	return nil, fmt.Errorf("failed to diff against base branch %s", cd.baseBranch)
}

// FilterChanged keeps the local paths that appear in ChangedFiles.
// Paths are matched relative to the repository root.
func (cd *ChangeDetector) FilterChanged(ctx context.Context, paths []string) ([]string, error) {
	top, err := cd.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("failed to find git repository root: %w", err)
	}
	root := strings.TrimSpace(string(top))

	changed, err := cd.ChangedFiles(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(changed))
	for _, f := range changed {
		set[filepath.ToSlash(f)] = true
	}

	var result []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if set[filepath.ToSlash(rel)] {
			result = append(result, p)
		}
	}
	return result, nil
}
