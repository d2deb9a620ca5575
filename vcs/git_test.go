package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, contents := range files {
		path := filepath.Join(root, name)

		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	}
}

func countCommits(t *testing.T, dir string) int {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	iter, err := repo.Log(&git.LogOptions{})
	require.NoError(t, err)

	n := 0

	err = iter.ForEach(func(*object.Commit) error {
		n += 1

		return nil
	})
	require.NoError(t, err)

	return n
}

func testClient() *Client {
	return &Client{
		Author: &Signature{Name: "Tester", Email: "tester@example.com"},
		now:    func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func TestInitAddAllCommit(t *testing.T) {
	dir := t.TempDir()

	writeTree(t, dir, map[string]string{
		"package.json":     `{"name": "demo"}`,
		"src/index.js":     "console.log('hi')\n",
		"public/style.css": "body {}\n",
	})

	c := testClient()

	require.NoError(t, c.Init(dir))
	require.DirExists(t, filepath.Join(dir, MetadataDir))

	require.NoError(t, c.AddAll(dir))

	hash, err := c.Commit(dir, "chore: initial project setup")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	assert.Equal(t, 1, countCommits(t, dir))

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)

	assert.Equal(t, "chore: initial project setup", commit.Message)
	assert.Equal(t, "Tester", commit.Author.Name)

	files, err := commit.Files()
	require.NoError(t, err)

	var names []string

	err = files.ForEach(func(f *object.File) error {
		names = append(names, f.Name)

		return nil
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"package.json", "src/index.js", "public/style.css"}, names)
}

func TestInitTwiceFails(t *testing.T) {
	dir := t.TempDir()

	c := testClient()

	require.NoError(t, c.Init(dir))
	assert.Error(t, c.Init(dir))
}

func TestAddAllWithoutRepository(t *testing.T) {
	assert.Error(t, testClient().AddAll(t.TempDir()))
}

func TestCloneLocal(t *testing.T) {
	src := t.TempDir()

	writeTree(t, src, map[string]string{
		"README.md":   "# template\n",
		"lib/main.js": "module.exports = {}\n",
	})

	c := testClient()

	require.NoError(t, c.Init(src))
	require.NoError(t, c.AddAll(src))

	_, err := c.Commit(src, "template")
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "my-api")

	err = c.Clone(context.Background(), src, dest)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "README.md"))
	assert.FileExists(t, filepath.Join(dest, "lib", "main.js"))
	assert.DirExists(t, filepath.Join(dest, MetadataDir))
}

func TestCloneDestinationExists(t *testing.T) {
	dest := t.TempDir()

	err := testClient().Clone(context.Background(), "https://example.invalid/repo.git", dest)
	require.ErrorIs(t, err, ErrDestinationExists)
}

func TestCloneUnreachable(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nope")

	err := testClient().Clone(context.Background(), filepath.Join(t.TempDir(), "missing-repo"), dest)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDestinationExists)
	assert.NoDirExists(t, dest)
}
