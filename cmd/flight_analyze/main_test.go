package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintPlanes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"planes":{"an-26":{"k":1.02,"k1":0.98},"il-76":{"k":1,"k1":1.1}}}`), 0o644))

	var out bytes.Buffer
	require.NoError(t, printPlanes(&out, path))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "an-26"), lines[0])
	assert.Contains(t, lines[0], "k=1.02")
	assert.Contains(t, lines[0], "k1=0.98")
	assert.True(t, strings.HasPrefix(lines[1], "default"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "il-76"), lines[2])
}

func TestPrintPlanesWithoutConfig(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printPlanes(&out, ""))
	assert.Equal(t, "default", strings.Fields(out.String())[0])
}

func TestPrintPlanesBadConfig(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, printPlanes(&out, filepath.Join(t.TempDir(), "missing.json")))
}
