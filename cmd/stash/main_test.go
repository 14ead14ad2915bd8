package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.scriptor.dev/stash/internal/app"
)

const defaultConfig = "cache:\n  max_entries: 50\n"

// writeProject lays out a script project in a temp directory: a stash.yml
// with the given content plus two scripts under story/.
func writeProject(t *testing.T, config string) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "stash.yml"), []byte(config), 0o600))

	story := filepath.Join(root, "story")
	require.NoError(t, os.MkdirAll(story, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(story, "intro.scr"),
		[]byte(":: Start\nHello.\n-> Meadow\n:: Meadow\nGrass everywhere.\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(story, "meadow.scr"),
		[]byte(":: Meadow\n* [Look around] -> Meadow\n"), 0o600))
	return root
}

// graftProvider builds the real component graph, the same way main does.
func graftProvider(ctx context.Context) (*app.Components, func(), error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	return c, func() {}, err
}

func TestRun_WarmPersistsSnapshot(t *testing.T) {
	root := writeProject(t, defaultConfig)
	t.Chdir(root)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"warm"}, stderr, graftProvider)

	require.Equal(t, 0, exitCode, stderr.String())
	assert.FileExists(t, filepath.Join(root, ".stash", "snapshot.json"))
}

func TestRun_ConfigFlagRelocatesProject(t *testing.T) {
	cwd := t.TempDir()
	conf := filepath.Join(cwd, "conf")
	require.NoError(t, os.MkdirAll(conf, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(conf, "stash.yml"), []byte(defaultConfig), 0o600))

	story := filepath.Join(cwd, "story")
	require.NoError(t, os.MkdirAll(story, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(story, "intro.scr"),
		[]byte(":: Start\nHello.\n"), 0o600))
	t.Chdir(cwd)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"--config", "conf/stash.yml", "warm", "story"}, stderr, graftProvider)

	require.Equal(t, 0, exitCode, stderr.String())
	// The project root follows the config file, and the snapshot with it.
	assert.FileExists(t, filepath.Join(conf, ".stash", "snapshot.json"))
	assert.NoFileExists(t, filepath.Join(cwd, ".stash", "snapshot.json"))
}

func TestRun_InvalidConfig(t *testing.T) {
	root := writeProject(t, "cache:\n  max_entries: 0\n")
	t.Chdir(root)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"warm"}, stderr, graftProvider)

	require.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error:")
	assert.Contains(t, stderr.String(), "invalid configuration")
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	require.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_CommandError(t *testing.T) {
	root := writeProject(t, defaultConfig)
	t.Chdir(root)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"structure", "story/missing.scr"}, stderr, graftProvider)

	require.Equal(t, 1, exitCode)
}
