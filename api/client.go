package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/state"
)

// Client calls a StateService.
type Client struct {
	serializer *serialization.Serializer
	put        *connect.Client[structpb.Struct, wrapperspb.StringValue]
	get        *connect.Client[wrapperspb.StringValue, structpb.Struct]
	del        *connect.Client[wrapperspb.StringValue, emptypb.Empty]
	list       *connect.Client[emptypb.Empty, structpb.ListValue]
}

// NewClient creates a Client for the service at baseURL. A nil serializer
// means serialization.New().
func NewClient(httpClient connect.HTTPClient, baseURL string, ser *serialization.Serializer, opts ...connect.ClientOption) *Client {
	if ser == nil {
		ser = serialization.New()
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		serializer: ser,
		put:        connect.NewClient[structpb.Struct, wrapperspb.StringValue](httpClient, baseURL+PutProcedure, opts...),
		get:        connect.NewClient[wrapperspb.StringValue, structpb.Struct](httpClient, baseURL+GetProcedure, opts...),
		del:        connect.NewClient[wrapperspb.StringValue, emptypb.Empty](httpClient, baseURL+DeleteProcedure, opts...),
		list:       connect.NewClient[emptypb.Empty, structpb.ListValue](httpClient, baseURL+ListProcedure, opts...),
	}
}

// Put stores doc under runID and returns the run ID the server used. An
// empty runID asks the server to generate one.
func (c *Client) Put(ctx context.Context, runID string, doc serialization.Document) (string, error) {
	msg, err := codec.ToStruct(doc)
	if err != nil {
		return "", err
	}

	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldState: structpb.NewStructValue(msg),
	}}
	if runID != "" {
		req.Fields[FieldRunID] = structpb.NewStringValue(runID)
	}

	res, err := c.put.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return "", err
	}
	return res.Msg.GetValue(), nil
}

// Get returns the document stored under runID.
func (c *Client) Get(ctx context.Context, runID string) (serialization.Document, error) {
	res, err := c.get.CallUnary(ctx, connect.NewRequest(wrapperspb.String(runID)))
	if err != nil {
		return nil, err
	}
	return codec.FromStruct(res.Msg), nil
}

// Delete removes runID.
func (c *Client) Delete(ctx context.Context, runID string) error {
	_, err := c.del.CallUnary(ctx, connect.NewRequest(wrapperspb.String(runID)))
	return err
}

// List returns every stored run ID.
func (c *Client) List(ctx context.Context) ([]string, error) {
	res, err := c.list.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}

	values := res.Msg.GetValues()
	ids := make([]string, len(values))
	for i, v := range values {
		ids[i] = v.GetStringValue()
	}
	return ids, nil
}

// PutState dumps st and stores it.
func (c *Client) PutState(ctx context.Context, runID string, st state.State) (string, error) {
	doc, err := c.serializer.Dump(st)
	if err != nil {
		return "", err
	}
	return c.Put(ctx, runID, doc)
}

// GetState fetches and loads the state stored under runID.
func (c *Client) GetState(ctx context.Context, runID string) (state.State, error) {
	doc, err := c.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	return c.serializer.Load(doc)
}
