package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	require.NoError(t, err)

	log.Info("hidden")
	log.WithField("topic", "biology").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "topic=biology")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "studybuddy.log")
	log, closer, err := NewFile(path, "info")
	require.NoError(t, err)

	log.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
}
