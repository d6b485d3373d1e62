package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strparse/internal/store"
)

func TestOpenStore(t *testing.T) {
	st := OpenStore(t)
	require.NoError(t, st.WriteRun(context.Background(), store.Run{ID: "r", Parser: "quoted", ErrorPosition: -1}, nil))

	run, err := st.ReadRun(context.Background(), "r")
	require.NoError(t, err)
	assert.Equal(t, "quoted", run.Parser)
}

func TestTempDBPath(t *testing.T) {
	path := TempDBPath(t)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestWriteFiles(t *testing.T) {
	dir := WriteFiles(t, map[string]string{"a.yaml": "a", "sub/b.cue": "b"})

	data, err := os.ReadFile(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "sub", "b.cue"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}
