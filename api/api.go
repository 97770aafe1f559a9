// Package api exposes a state store over Connect as the
// statewire.v1.StateService. Messages are the protobuf well-known types, so
// clients in any Connect, gRPC or gRPC-Web stack can call it without
// generated stubs:
//
//	Put(google.protobuf.Struct{run_id, state})  -> google.protobuf.StringValue
//	Get(google.protobuf.StringValue)            -> google.protobuf.Struct
//	Delete(google.protobuf.StringValue)         -> google.protobuf.Empty
//	List(google.protobuf.Empty)                 -> google.protobuf.ListValue
package api

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/observability"
	"github.com/tailored-agentic-units/statewire/payload"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/store"
	"github.com/tailored-agentic-units/statewire/timestamp"
)

// StateServiceName is the fully-qualified name of the service.
const StateServiceName = "statewire.v1.StateService"

// Procedure paths.
const (
	PutProcedure    = "/" + StateServiceName + "/Put"
	GetProcedure    = "/" + StateServiceName + "/Get"
	DeleteProcedure = "/" + StateServiceName + "/Delete"
	ListProcedure   = "/" + StateServiceName + "/List"
)

// Put request fields.
const (
	FieldRunID = "run_id"
	FieldState = "state"
)

// EventRequest is emitted once per handled call.
const EventRequest observability.EventType = "api.request"

// connectError maps store and serialization failures to Connect codes.
func connectError(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, store.ErrInvalidRunID),
		errors.Is(err, serialization.ErrMissingTypeTag),
		errors.Is(err, serialization.ErrUnknownTypeTag),
		errors.Is(err, serialization.ErrInvalidField),
		errors.Is(err, serialization.ErrNilState),
		errors.Is(err, payload.ErrTooLarge),
		errors.Is(err, payload.ErrMalformed),
		errors.Is(err, payload.ErrNotSerializable),
		errors.Is(err, timestamp.ErrMalformed):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, store.ErrSchemaMissing):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, codec.ErrMalformed):
		return connect.NewError(connect.CodeDataLoss, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
