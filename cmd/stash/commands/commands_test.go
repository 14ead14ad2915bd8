package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.scriptor.dev/stash/cmd/stash/commands"
	"go.scriptor.dev/stash/internal/adapters/config"
	"go.scriptor.dev/stash/internal/app"
	"go.scriptor.dev/stash/internal/build"
	"go.scriptor.dev/stash/internal/core/domain"
)

// mockApp records the operations a command drives, so tests can assert the
// session wrapping and flag propagation.
type mockApp struct {
	calls []string

	openErr      error
	closeErr     error
	structure    *domain.Structure
	structureErr error
	graph        *domain.Graph
	warm         app.WarmResult
	warmErr      error
	watchErr     error
	stats        domain.CacheStats
	clearErr     error

	warmRoot     string
	watchRoot    string
	alsoSnapshot bool
}

func (m *mockApp) Root() string { return "/project" }

func (m *mockApp) Open(context.Context) error {
	m.calls = append(m.calls, "open")
	return m.openErr
}

func (m *mockApp) Close(context.Context) error {
	m.calls = append(m.calls, "close")
	return m.closeErr
}

func (m *mockApp) StructureFor(_ context.Context, path string) (*domain.Structure, error) {
	m.calls = append(m.calls, "structure "+path)
	return m.structure, m.structureErr
}

func (m *mockApp) GraphFor(_ context.Context, path string) (*domain.Graph, error) {
	m.calls = append(m.calls, "graph "+path)
	return m.graph, nil
}

func (m *mockApp) Warm(_ context.Context, root string) (app.WarmResult, error) {
	m.calls = append(m.calls, "warm")
	m.warmRoot = root
	return m.warm, m.warmErr
}

func (m *mockApp) Watch(_ context.Context, root string) error {
	m.calls = append(m.calls, "watch")
	m.watchRoot = root
	return m.watchErr
}

func (m *mockApp) Stats() domain.CacheStats {
	m.calls = append(m.calls, "stats")
	return m.stats
}

func (m *mockApp) ClearCache(_ context.Context, alsoSnapshot bool) error {
	m.calls = append(m.calls, "clear")
	m.alsoSnapshot = alsoSnapshot
	return m.clearErr
}

func newTestCLI(mock *mockApp, args ...string) (*commands.CLI, *bytes.Buffer) {
	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	return cli, buf
}

func sampleStructure() *domain.Structure {
	return &domain.Structure{
		Blocks: []domain.Block{
			{Name: "Start", Kind: domain.BlockSection, Line: 1, EndLine: 3,
				Steps: []domain.Step{{Kind: domain.StepText, Text: "Hello", Line: 2}}},
			{Name: "Meadow", Kind: domain.BlockScene, Line: 4, EndLine: 5},
		},
		Lines: 5,
	}
}

func TestCommands_Structure(t *testing.T) {
	t.Run("prints outline inside a session", func(t *testing.T) {
		mock := &mockApp{structure: sampleStructure()}
		cli, buf := newTestCLI(mock, "structure", "story/intro.scr")

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []string{"open", "structure story/intro.scr", "close"}, mock.calls)
		assert.Contains(t, buf.String(), "2 block(s), 5 line(s)")
		assert.Contains(t, buf.String(), "Start [section] lines 1-3, 1 step(s)")
		assert.Contains(t, buf.String(), "Meadow [scene]")
	})

	t.Run("json output decodes back", func(t *testing.T) {
		mock := &mockApp{structure: sampleStructure()}
		cli, buf := newTestCLI(mock, "structure", "story/intro.scr", "--json")

		require.NoError(t, cli.Execute(context.Background()))

		var decoded domain.Structure
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, *mock.structure, decoded)
	})

	t.Run("closes the session even when the body fails", func(t *testing.T) {
		mock := &mockApp{structureErr: errors.New("simulated error")}
		cli, _ := newTestCLI(mock, "structure", "story/intro.scr")

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
		assert.Equal(t, []string{"open", "structure story/intro.scr", "close"}, mock.calls)
	})

	t.Run("open failure skips the body", func(t *testing.T) {
		mock := &mockApp{openErr: errors.New("snapshot damaged")}
		cli, _ := newTestCLI(mock, "structure", "story/intro.scr")

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Equal(t, []string{"open"}, mock.calls)
	})
}

func TestCommands_Graph(t *testing.T) {
	mock := &mockApp{graph: &domain.Graph{
		Nodes: []domain.GraphNode{{ID: "Start", Kind: domain.BlockSection, Line: 1, Steps: 2}},
		Edges: []domain.GraphEdge{
			{From: "Start", To: "End", Kind: domain.EdgeDivert, Line: 3, Dangling: true},
			{From: "Start", To: "Meadow", Kind: domain.EdgeChoice, Line: 2, Label: "Go outside"},
		},
	}}
	cli, buf := newTestCLI(mock, "graph", "story/intro.scr")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"open", "graph story/intro.scr", "close"}, mock.calls)
	assert.Contains(t, buf.String(), "1 node(s), 2 edge(s)")
	assert.Contains(t, buf.String(), "Start -> End [divert] (dangling)")
	assert.Contains(t, buf.String(), `Start -> Meadow [choice] "Go outside"`)
}

func TestCommands_Warm(t *testing.T) {
	t.Run("defaults to the project root", func(t *testing.T) {
		mock := &mockApp{warm: app.WarmResult{Parsed: 2, Cached: 1}}
		cli, buf := newTestCLI(mock, "warm")

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "/project", mock.warmRoot)
		assert.Equal(t, []string{"open", "warm", "close"}, mock.calls)
		assert.Contains(t, buf.String(), "warmed 3 script(s): 2 parsed, 1 cached, 0 failed")
	})

	t.Run("explicit directory wins", func(t *testing.T) {
		mock := &mockApp{}
		cli, _ := newTestCLI(mock, "warm", "chapters")

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "chapters", mock.warmRoot)
	})
}

func TestCommands_Watch(t *testing.T) {
	mock := &mockApp{}
	cli, _ := newTestCLI(mock, "watch", "chapters")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "chapters", mock.watchRoot)
	assert.Equal(t, []string{"open", "watch", "close"}, mock.calls)
}

func TestCommands_Stats(t *testing.T) {
	stats := domain.CacheStats{Hits: 3, Misses: 1, StructureCount: 2, GraphCount: 1, MemoryUsage: 2048}

	t.Run("text", func(t *testing.T) {
		mock := &mockApp{stats: stats}
		cli, buf := newTestCLI(mock, "stats")

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "structures: 2")
		assert.Contains(t, buf.String(), "hit rate:   75.0%")
	})

	t.Run("json", func(t *testing.T) {
		mock := &mockApp{stats: stats}
		cli, buf := newTestCLI(mock, "stats", "--json")

		require.NoError(t, cli.Execute(context.Background()))

		var decoded domain.CacheStats
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, stats, decoded)
	})
}

func TestCommands_Clear(t *testing.T) {
	t.Run("memory only", func(t *testing.T) {
		mock := &mockApp{}
		cli, _ := newTestCLI(mock, "clear")

		require.NoError(t, cli.Execute(context.Background()))
		// Clear runs without a session: nothing to restore, nothing to save.
		assert.Equal(t, []string{"clear"}, mock.calls)
		assert.False(t, mock.alsoSnapshot)
	})

	t.Run("with snapshot", func(t *testing.T) {
		mock := &mockApp{}
		cli, _ := newTestCLI(mock, "clear", "--snapshot")

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, mock.alsoSnapshot)
	})
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli, buf := newTestCLI(mock, "version")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), build.Version)
	assert.Empty(t, mock.calls)
}

func TestGlobalOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want config.Overrides
	}{
		{
			name: "no flags",
			args: []string{"warm", "."},
			want: config.Overrides{},
		},
		{
			name: "all flags",
			args: []string{"--config", "custom.yml", "--log-level", "debug", "--log-json", "stats"},
			want: config.Overrides{File: "custom.yml", LogLevel: "debug", LogFormat: "json"},
		},
		{
			name: "flags after the subcommand",
			args: []string{"structure", "intro.scr", "--log-level=warn"},
			want: config.Overrides{LogLevel: "warn"},
		},
		{
			name: "subcommand flags are ignored",
			args: []string{"stats", "--json"},
			want: config.Overrides{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commands.GlobalOverrides(tt.args))
		})
	}
}
