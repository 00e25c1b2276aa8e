package transport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAcceptDialRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coredbg.sock")

	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()

	serverConnCh := make(chan Transport, 1)
	go func() {
		conn, err := ln.Accept()
		require.NoError(t, err)
		serverConnCh <- conn
	}()

	client, err := Dial(path)
	require.NoError(t, err)
	defer client.Close()

	server := <-serverConnCh
	defer server.Close()

	require.NoError(t, client.Write([]byte(`{"id":"1"}`)))
	line, err := server.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(line))

	require.NoError(t, server.Write([]byte(`{"ok":true}`)))
	reply, err := client.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(reply))
}

func TestListenRemovesStaleSocketFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coredbg.sock")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()
}
