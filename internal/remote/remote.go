// Package remote resolves repository references given on the command
// line that do not name a local path, and clones them for analysis.
package remote

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source is a remote repository reference. Ref is a branch or tag
// name; empty means the default branch.
type Source struct {
	URL string
	Ref string
}

// Parse interprets a path argument as a remote reference. A path that
// exists locally always wins and returns nil. Recognized forms are
// GitHub owner/repo shorthand, http(s) URLs, and git@ SSH URLs, each
// optionally suffixed with @ref.
func Parse(path string) *Source {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	ref := ""
	rest := path
	if idx := strings.LastIndex(rest, "@"); idx > 0 && !strings.ContainsAny(rest[idx+1:], "/:") {
		ref = rest[idx+1:]
		rest = rest[:idx]
	}

	switch {
	case strings.HasPrefix(rest, "https://"),
		strings.HasPrefix(rest, "http://"),
		strings.HasPrefix(rest, "git@"):
		return &Source{URL: rest, Ref: ref}
	case isGitHubShorthand(rest):
		return &Source{URL: "https://github.com/" + rest, Ref: ref}
	}
	return nil
}

// isGitHubShorthand reports whether path looks like owner/repo: one
// slash, both sides non-empty, and no dots in the owner (a dot there
// would indicate a host name).
func isGitHubShorthand(path string) bool {
	slash := strings.Index(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	return !strings.Contains(path[:slash], ".")
}

// Clone performs a shallow clone of src into a fresh temp directory
// and returns the directory. The caller owns cleanup.
func Clone(ctx context.Context, src *Source) (string, error) {
	dir, err := os.MkdirTemp("", "augur-clone-*")
	if err != nil {
		return "", fmt.Errorf("failed to create clone dir: %w", err)
	}

	opts := &git.CloneOptions{
		URL:          src.URL,
		Depth:        1,
		SingleBranch: true,
	}
	if src.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Ref)
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		if src.Ref == "" {
			os.RemoveAll(dir)
			return "", fmt.Errorf("failed to clone %s: %w", src.URL, err)
		}
		// The ref may be a tag rather than a branch.
		os.RemoveAll(dir)
		dir, err = os.MkdirTemp("", "augur-clone-*")
		if err != nil {
			return "", fmt.Errorf("failed to create clone dir: %w", err)
		}
		opts.ReferenceName = plumbing.NewTagReferenceName(src.Ref)
		if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("failed to clone %s at %s: %w", src.URL, src.Ref, err)
		}
	}
	return dir, nil
}
