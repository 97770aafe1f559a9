package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/statewire/api"
	"github.com/tailored-agentic-units/statewire/mocks"
	"github.com/tailored-agentic-units/statewire/observability"
	"github.com/tailored-agentic-units/statewire/payload"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/state"
	"github.com/tailored-agentic-units/statewire/store"
)

func newServer(t *testing.T, s store.Store, opts ...api.HandlerOption) *api.Client {
	t.Helper()

	mux := http.NewServeMux()
	path, handler := api.NewHandler(s, nil, opts...)
	mux.Handle(path, handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.Client(), srv.URL, nil)
}

func TestStateService_RoundTrip(t *testing.T) {
	client := newServer(t, store.NewMemoryStore(nil))
	ctx := context.Background()

	in := &state.Success{
		Base: state.Base{Message: state.Msg("done"), Result: payload.MustFrom(map[string]any{"x": 1})},
		Cached: &state.CachedState{
			CachedResult:           payload.MustFrom([]any{"a", 2}),
			CachedResultExpiration: state.At(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
	}

	runID, err := client.PutState(ctx, "run-1", in)
	require.NoError(t, err)
	assert.Equal(t, "run-1", runID)

	out, err := client.GetState(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, state.Equal(in, out))

	ids, err := client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ids)

	require.NoError(t, client.Delete(ctx, "run-1"))
	_, err = client.Get(ctx, "run-1")
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestStateService_PutGeneratesRunID(t *testing.T) {
	client := newServer(t, store.NewMemoryStore(nil), api.WithIDGenerator(func() string { return "generated-1" }))

	runID, err := client.PutState(context.Background(), "", &state.Running{})
	require.NoError(t, err)
	assert.Equal(t, "generated-1", runID)
}

func TestStateService_PutGeneratesUUIDByDefault(t *testing.T) {
	client := newServer(t, store.NewMemoryStore(nil))

	runID, err := client.PutState(context.Background(), "", &state.Pending{})
	require.NoError(t, err)
	assert.Len(t, runID, 36)
	assert.NoError(t, store.ValidateRunID(runID))
}

func TestStateService_PutCanonicalizes(t *testing.T) {
	client := newServer(t, store.NewMemoryStore(nil))
	ctx := context.Background()

	_, err := client.Put(ctx, "run-1", serialization.Document{
		"type":       "Scheduled",
		"start_time": "2020-01-01 00:00:00",
		"extra":      "dropped",
	})
	require.NoError(t, err)

	doc, err := client.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01T00:00:00Z", doc["start_time"])
	assert.NotContains(t, doc, "extra")
	assert.Contains(t, doc, serialization.KeyVersion)
}

func TestStateService_InvalidArgument(t *testing.T) {
	client := newServer(t, store.NewMemoryStore(nil))
	ctx := context.Background()

	tests := []struct {
		name  string
		runID string
		doc   serialization.Document
	}{
		{name: "missing tag", runID: "run-1", doc: serialization.Document{}},
		{name: "unknown tag", runID: "run-1", doc: serialization.Document{"type": "FakeState"}},
		{name: "oversize result", runID: "run-1", doc: serialization.Document{"type": "Success", "result": `"` + strings.Repeat("x", 20000) + `"`}},
		{name: "bad timestamp", runID: "run-1", doc: serialization.Document{"type": "Scheduled", "start_time": "later"}},
		{name: "bad run id", runID: "../etc", doc: serialization.Document{"type": "Pending"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Put(ctx, tt.runID, tt.doc)
			require.Error(t, err)
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}
}

func TestStateService_MissingState(t *testing.T) {
	path, handler := api.NewHandler(store.NewMemoryStore(nil), nil)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	raw := connect.NewClient[structpb.Struct, structpb.Struct](srv.Client(), srv.URL+api.PutProcedure)
	_, err := raw.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestStateService_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	client := newServer(t, s)
	ctx := context.Background()

	s.EXPECT().Save(gomock.Any(), "run-1", gomock.Any()).Return(store.ErrSaveFailed)
	_, err := client.PutState(ctx, "run-1", &state.Running{})
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))

	s.EXPECT().Load(gomock.Any(), "run-2").Return(nil, store.ErrNotFound)
	_, err = client.Get(ctx, "run-2")
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	s.EXPECT().List(gomock.Any()).Return(nil, store.ErrSchemaMissing)
	_, err = client.List(ctx)
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	s.EXPECT().Delete(gomock.Any(), "run-3").Return(errors.New("disk on fire"))
	err = client.Delete(ctx, "run-3")
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
}

func TestStateService_GetLoadsStoredDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	client := newServer(t, s)

	s.EXPECT().Load(gomock.Any(), "run-1").Return(serialization.Document{
		"type":      "Retrying",
		"run_count": 3,
		"message":   "again",
	}, nil)

	st, err := client.GetState(context.Background(), "run-1")
	require.NoError(t, err)
	assert.True(t, state.Equal(&state.Retrying{Base: state.Base{Message: state.Msg("again")}, RunCount: 3}, st))
}

func TestStateService_EmitsRequestEvents(t *testing.T) {
	rec := &observability.Recorder{}
	client := newServer(t, store.NewMemoryStore(nil), api.WithObserver(rec))
	ctx := context.Background()

	_, err := client.PutState(ctx, "run-1", &state.Pending{})
	require.NoError(t, err)
	_, err = client.Get(ctx, "missing")
	require.Error(t, err)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, api.EventRequest, events[0].Type)
	assert.Equal(t, "Put", events[0].Data["method"])
	assert.Equal(t, observability.LevelInfo, events[0].Level)
	assert.Equal(t, observability.LevelWarning, events[1].Level)
}
