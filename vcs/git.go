// Package vcs drives git through go-git, so no git binary is required.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	MetadataDir = ".git"

	fallbackName  = "repo-cloner"
	fallbackEmail = "repo-cloner@localhost"
)

type (
	Signature struct {
		Name  string
		Email string
	}

	// Client performs the handful of git operations needed to turn a template into a new project.
	Client struct {
		// Depth of history fetched by Clone; 0 fetches everything.
		Depth int
		// Author overrides the commit author. When nil, the user's global git identity is used,
		// falling back to a fixed repo-cloner identity.
		Author *Signature
		now    func() time.Time
	}
)

var ErrDestinationExists = errors.New("destination already exists")

func NewClient() *Client {
	return &Client{Depth: 1, now: time.Now}
}

// Clone copies the default branch tip of url into dir, which must not exist yet.
// Non-nil returned error wraps [ErrDestinationExists] when dir is already present.
func (c *Client) Clone(ctx context.Context, url, dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		return fmt.Errorf("%w: %q", ErrDestinationExists, dir)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check destination %q: %w", dir, err)
	}

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        c.Depth,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		return fmt.Errorf("failed to clone %q into %q: %w", url, dir, err)
	}

	return nil
}

func (c *Client) Init(dir string) error {
	if _, err := git.PlainInit(dir, false); err != nil {
		return fmt.Errorf("failed to initialize repository in %q: %w", dir, err)
	}

	return nil
}

// AddAll stages every file in the work tree of the repository at dir.
func (c *Client) AddAll(dir string) error {
	wt, err := worktree(dir)
	if err != nil {
		return err
	}

	if err = wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage files in %q: %w", dir, err)
	}

	return nil
}

// Commit records the staged files and returns the new commit hash.
func (c *Client) Commit(dir, message string) (hash string, err error) {
	wt, err := worktree(dir)
	if err != nil {
		return "", err
	}

	sig := c.signature()

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	h, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: sig.Name, Email: sig.Email, When: now()},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit in %q: %w", dir, err)
	}

	return h.String(), nil
}

func (c *Client) signature() Signature {
	if c.Author != nil {
		return *c.Author
	}

	sig := Signature{Name: fallbackName, Email: fallbackEmail}

	cfg, err := config.LoadConfig(config.GlobalScope)
	if err != nil {
		return sig
	}

	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}

	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}

	return sig
}

func worktree(dir string) (*git.Worktree, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository in %q: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open work tree of %q: %w", dir, err)
	}

	return wt, nil
}
