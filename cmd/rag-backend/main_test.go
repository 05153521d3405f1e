package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_AskWithEmptyStore(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("VECTOR_STORE_BACKEND", "memory")
	t.Setenv("VECTOR_STORE_DIMENSION", "64")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--env", "cmd-test-does-not-exist", "ask", "What color is the sky?"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "I couldn't find any relevant information to answer your question.\n", out.String())
}

func TestRootCmd_Ingest(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("VECTOR_STORE_BACKEND", "memory")
	t.Setenv("VECTOR_STORE_DIMENSION", "64")

	dir := t.TempDir()
	txt := filepath.Join(dir, "sky.txt")
	md := filepath.Join(dir, "grass.md")
	require.NoError(t, os.WriteFile(txt, []byte("The sky is blue."), 0o600))
	require.NoError(t, os.WriteFile(md, []byte("# Grass\n\nGrass is green."), 0o600))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--env", "cmd-test-does-not-exist", "ingest", txt, md})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_IngestRejectsUnknownExtension(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("VECTOR_STORE_BACKEND", "memory")

	pdf := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))

	cmd := newRootCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env", "cmd-test-does-not-exist", "ingest", pdf})
	require.Error(t, cmd.Execute())
}
