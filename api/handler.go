package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/observability"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/store"
)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithObserver sets the observer that receives request events.
func WithObserver(o observability.Observer) HandlerOption {
	return func(h *Handler) { h.observer = o }
}

// WithIDGenerator overrides the run ID generator used when Put receives no
// run_id.
func WithIDGenerator(gen func() string) HandlerOption {
	return func(h *Handler) { h.newID = gen }
}

// WithConnectOptions passes options to every Connect handler.
func WithConnectOptions(opts ...connect.HandlerOption) HandlerOption {
	return func(h *Handler) { h.connectOpts = append(h.connectOpts, opts...) }
}

// Handler serves StateService calls against a store.
type Handler struct {
	store       store.Store
	serializer  *serialization.Serializer
	observer    observability.Observer
	newID       func() string
	connectOpts []connect.HandlerOption
}

// NewHandler returns the service path prefix and its http.Handler, ready
// to mount on a mux.
func NewHandler(s store.Store, ser *serialization.Serializer, opts ...HandlerOption) (string, http.Handler) {
	h := newHandler(s, ser, opts...)

	mux := http.NewServeMux()
	mux.Handle(PutProcedure, connect.NewUnaryHandler(PutProcedure, h.Put, h.connectOpts...))
	mux.Handle(GetProcedure, connect.NewUnaryHandler(GetProcedure, h.Get, h.connectOpts...))
	mux.Handle(DeleteProcedure, connect.NewUnaryHandler(DeleteProcedure, h.Delete, h.connectOpts...))
	mux.Handle(ListProcedure, connect.NewUnaryHandler(ListProcedure, h.List, h.connectOpts...))
	return "/" + StateServiceName + "/", mux
}

func newHandler(s store.Store, ser *serialization.Serializer, opts ...HandlerOption) *Handler {
	if ser == nil {
		ser = serialization.New()
	}
	h := &Handler{
		store:      s,
		serializer: ser,
		observer:   observability.NoOpObserver{},
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Put validates the submitted document by loading it, then stores its
// canonical re-dump. A run ID is generated when none is given.
func (h *Handler) Put(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[wrapperspb.StringValue], error) {
	start := time.Now()
	fields := req.Msg.GetFields()
	runID := fields[FieldRunID].GetStringValue()

	raw := fields[FieldState].GetStructValue()
	if raw == nil {
		err := connect.NewError(connect.CodeInvalidArgument, errors.New("state is required"))
		h.emit(ctx, "Put", runID, start, err)
		return nil, err
	}

	st, err := h.serializer.Load(codec.FromStruct(raw))
	if err != nil {
		h.emit(ctx, "Put", runID, start, err)
		return nil, connectError(err)
	}
	doc, err := h.serializer.Dump(st)
	if err != nil {
		h.emit(ctx, "Put", runID, start, err)
		return nil, connectError(err)
	}

	if runID == "" {
		runID = h.newID()
	}
	if err := h.store.Save(ctx, runID, doc); err != nil {
		h.emit(ctx, "Put", runID, start, err)
		return nil, connectError(err)
	}

	h.emit(ctx, "Put", runID, start, nil)
	return connect.NewResponse(wrapperspb.String(runID)), nil
}

// Get returns the stored document for a run ID.
func (h *Handler) Get(ctx context.Context, req *connect.Request[wrapperspb.StringValue]) (*connect.Response[structpb.Struct], error) {
	start := time.Now()
	runID := req.Msg.GetValue()

	doc, err := h.store.Load(ctx, runID)
	if err != nil {
		h.emit(ctx, "Get", runID, start, err)
		return nil, connectError(err)
	}

	msg, err := codec.ToStruct(doc)
	if err != nil {
		h.emit(ctx, "Get", runID, start, err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	h.emit(ctx, "Get", runID, start, nil)
	return connect.NewResponse(msg), nil
}

// Delete removes a run ID. Deleting an unknown run ID succeeds.
func (h *Handler) Delete(ctx context.Context, req *connect.Request[wrapperspb.StringValue]) (*connect.Response[emptypb.Empty], error) {
	start := time.Now()
	runID := req.Msg.GetValue()

	if err := h.store.Delete(ctx, runID); err != nil {
		h.emit(ctx, "Delete", runID, start, err)
		return nil, connectError(err)
	}

	h.emit(ctx, "Delete", runID, start, nil)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// List returns every stored run ID.
func (h *Handler) List(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[structpb.ListValue], error) {
	start := time.Now()

	ids, err := h.store.List(ctx)
	if err != nil {
		h.emit(ctx, "List", "", start, err)
		return nil, connectError(err)
	}

	values := make([]*structpb.Value, len(ids))
	for i, id := range ids {
		values[i] = structpb.NewStringValue(id)
	}

	h.emit(ctx, "List", "", start, nil)
	return connect.NewResponse(&structpb.ListValue{Values: values}), nil
}

func (h *Handler) emit(ctx context.Context, method, runID string, start time.Time, err error) {
	level := observability.LevelInfo
	data := map[string]any{
		"method":   method,
		"duration": time.Since(start).String(),
	}
	if runID != "" {
		data["run_id"] = runID
	}
	if err != nil {
		level = observability.LevelWarning
		data["error"] = err.Error()
	}

	h.observer.OnEvent(ctx, observability.Event{
		Type:      EventRequest,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "api." + method,
		Data:      data,
	})
}
