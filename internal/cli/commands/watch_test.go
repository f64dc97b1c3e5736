package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/leapparse/internal/cli/config"
	"github.com/leapstack-labs/leapparse/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher(t *testing.T) {
	root := testutil.SetupSQLProject(t, map[string]string{
		"good.sql": "SELECT 1;\n",
		"bad.sql":  "SELEC 1;\n",
	})

	cmdCtx, tr := newTestContext(config.Default(), "markdown")
	p, err := cmdCtx.Parser("")
	require.NoError(t, err)

	w := &fileWatcher{
		cmdCtx:   cmdCtx,
		parser:   p,
		debounce: 20 * time.Millisecond,
		ready:    make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, []string{root}) }()

	select {
	case <-w.ready:
	case err := <-done:
		t.Fatalf("watcher stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	initial := tr.Output()
	assert.Contains(t, initial, "good.sql: ok")
	assert.Contains(t, initial, "bad.sql: 1 unparsable region(s)")
	assert.Contains(t, initial, "watching "+root)

	// Fix the broken file and add a new one in a new directory.
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.sql"), []byte("SELECT 1;\n"), 0o600))
	assert.Eventually(t, func() bool {
		return strings.Contains(tr.Output(), "bad.sql: ok")
	}, 5*time.Second, 20*time.Millisecond)

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o750))
	// give the watcher a moment to register the new directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "new.sql"), []byte("SELECT FROM WHERE;\n"), 0o600))
	assert.Eventually(t, func() bool {
		return strings.Contains(tr.Output(), "new.sql: 1 unparsable region(s)")
	}, 5*time.Second, 20*time.Millisecond)

	// Files with other extensions are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, tr.Output(), "notes.txt")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFileWatcher_MissingDir(t *testing.T) {
	cmdCtx, _ := newTestContext(config.Default(), "markdown")
	p, err := cmdCtx.Parser("")
	require.NoError(t, err)

	w := &fileWatcher{cmdCtx: cmdCtx, parser: p}
	err = w.run(t.Context(), []string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
