package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "store:\n  driver: memory\n  timeout: 5s\nlogging:\n  level: error\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunnerSession(t *testing.T) {
	ctx := context.Background()
	in := strings.NewReader(strings.Join([]string{
		"1", "1", // Add, department
		"Computer Science", "CS", "Ada Lovelace", "ECS", "542", "",
		"2", "1", // List, departments
		"4", // Exit
	}, "\n") + "\n")
	var out bytes.Buffer

	r, err := NewRunner(ctx, writeConfig(t), in, &out)
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx))

	assert.Contains(t, out.String(), "Department added successfully!")
	assert.Contains(t, out.String(), "Computer Science (CS)")
}

func TestRunnerStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// A reader that never delivers a line keeps the console waiting
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { pw.Close(); pr.Close() })

	r, err := NewRunner(ctx, writeConfig(t), pr, &bytes.Buffer{})
	require.NoError(t, err)

	cancel()
	assert.NoError(t, r.Run(ctx))
}

func TestNewRunnerRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: redis\n"), 0o600))

	_, err := NewRunner(context.Background(), path, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}
