package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-req/req/app"
	"github.com/byte4ever/git-req/req/config"
)

func newKeyStore(t *testing.T) *config.Store {
	t.Helper()

	return &config.Store{
		GlobalPath: filepath.Join(
			t.TempDir(), "gitreqconfig",
		),
	}
}

// pipeInput returns a readable *os.File preloaded with
// the given content.
func pipeInput(t *testing.T, content string) *os.File {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	t.Cleanup(func() { _ = r.Close() })

	_, err = w.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return r
}

func TestTerminalKeys_returns_cached_token(t *testing.T) {
	t.Parallel()

	st := newKeyStore(t)
	require.NoError(t, st.SetDomain(
		"gitlab.example.com", "apikey", "cached",
	))

	keys := &app.TerminalKeys{
		Store: st,
		In:    os.Stdin,
		Out:   io.Discard,
	}

	got, err := keys.Key(
		context.Background(), "gitlab.example.com",
	)
	require.NoError(t, err)
	assert.Equal(t, "cached", got)
}

func TestTerminalKeys_prompts_and_persists(t *testing.T) {
	t.Parallel()

	st := newKeyStore(t)

	var out bytes.Buffer

	keys := &app.TerminalKeys{
		Store: st,
		In:    pipeInput(t, "newtok\n"),
		Out:   &out,
	}

	got, err := keys.Key(context.Background(), "gitlab.example.com")
	require.NoError(t, err)
	assert.Equal(t, "newtok", got)
	assert.Contains(t, out.String(), "gitlab.example.com")

	// The answer is cached for the next invocation.
	stored, err := st.GetDomain(
		"gitlab.example.com", "apikey",
	)
	require.NoError(t, err)
	assert.Equal(t, "newtok", stored)
}

func TestTerminalKeys_rejects_empty_token(t *testing.T) {
	t.Parallel()

	keys := &app.TerminalKeys{
		Store: newKeyStore(t),
		In:    pipeInput(t, "\n"),
		Out:   io.Discard,
	}

	_, err := keys.Key(context.Background(), "gitlab.example.com")
	assert.ErrorContains(t, err, "empty token")
}
