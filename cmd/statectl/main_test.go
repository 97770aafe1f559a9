package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/statewire/api"
	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/payload"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/state"
	"github.com/tailored-agentic-units/statewire/store"
)

func writeState(t *testing.T, name string, st state.State) string {
	t.Helper()

	doc, err := serialization.Dump(st)
	require.NoError(t, err)

	c, err := codec.Lookup(strings.TrimPrefix(filepath.Ext(name), "."))
	if err != nil {
		c, err = codec.Lookup(codec.NameJSON)
		require.NoError(t, err)
	}
	data, err := c.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func newTestServer(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	path, handler := api.NewHandler(store.NewMemoryStore(nil), nil)
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

var failed = &state.Failed{Base: state.Base{
	Message: state.Msg("boom"),
	Result:  payload.MustFrom(map[string]any{"code": 3}),
}}

func TestValidate(t *testing.T) {
	for _, name := range []string{"failed.json", "failed.cbor", "failed.msgpack", "failed.state"} {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "validate", writeState(t, name, failed))
			require.NoError(t, err)
			assert.Equal(t, "ok Failed (Failed < Finished)\n", out)
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Nope"}`), 0o644))

	_, err := execute(t, "validate", path)
	assert.ErrorIs(t, err, serialization.ErrUnknownTypeTag)
}

func TestConvert(t *testing.T) {
	out, err := execute(t, "convert", "-to", codec.NameCBOR, writeState(t, "failed.json", failed))
	require.NoError(t, err)

	c, err := codec.Lookup(codec.NameCBOR)
	require.NoError(t, err)
	doc, err := c.Unmarshal([]byte(out))
	require.NoError(t, err)

	st, err := serialization.Load(doc)
	require.NoError(t, err)
	assert.True(t, state.Equal(failed, st))
}

func TestQuery(t *testing.T) {
	out, err := execute(t, "query", "-expr", "result.code", writeState(t, "failed.json", failed))
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, err = execute(t, "query", "-expr", "lineage", writeState(t, "failed.json", failed))
	require.NoError(t, err)
	assert.JSONEq(t, `["Failed","Finished"]`, out)
}

func TestServerCommands(t *testing.T) {
	url := newTestServer(t)

	out, err := execute(t, "put", "-server", url, "-run-id", "r-failed", writeState(t, "failed.json", failed))
	require.NoError(t, err)
	assert.Equal(t, "r-failed\n", out)

	_, err = execute(t, "put", "-server", url, "-run-id", "r-running", writeState(t, "running.json", &state.Running{}))
	require.NoError(t, err)

	out, err = execute(t, "list", "-server", url)
	require.NoError(t, err)
	assert.Equal(t, "r-failed\nr-running\n", out)

	out, err = execute(t, "list", "-server", url, "-filter", `"Finished" in lineage`)
	require.NoError(t, err)
	assert.Equal(t, "r-failed\n", out)

	out, err = execute(t, "get", "-server", url, "r-failed")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "Failed"`)

	_, err = execute(t, "delete", "-server", url, "r-failed")
	require.NoError(t, err)

	out, err = execute(t, "list", "-server", url)
	require.NoError(t, err)
	assert.Equal(t, "r-running\n", out)
}

func TestUsageErrors(t *testing.T) {
	_, err := execute(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = execute(t, "validate")
	assert.ErrorIs(t, err, errUsage)

	_, err = execute(t, "query", "file.json")
	assert.ErrorIs(t, err, errUsage)

	_, err = execute(t, "frobnicate")
	assert.ErrorContains(t, err, "unknown command")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "statectl "))
}
