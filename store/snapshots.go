package store

import (
	"context"

	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/state"
)

// Snapshots stores state values by dumping them through a Serializer.
type Snapshots struct {
	Store      Store
	Serializer *serialization.Serializer
}

// NewSnapshots pairs s with ser, defaulting to serialization.New().
func NewSnapshots(s Store, ser *serialization.Serializer) *Snapshots {
	if ser == nil {
		ser = serialization.New()
	}
	return &Snapshots{Store: s, Serializer: ser}
}

// Put dumps st and saves the document under runID.
func (s *Snapshots) Put(ctx context.Context, runID string, st state.State) error {
	doc, err := s.Serializer.Dump(st)
	if err != nil {
		return err
	}
	return s.Store.Save(ctx, runID, doc)
}

// Get loads the document under runID and reconstructs its state.
func (s *Snapshots) Get(ctx context.Context, runID string) (state.State, error) {
	doc, err := s.Store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.Serializer.Load(doc)
}
