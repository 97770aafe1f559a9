package store

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/statewire/observability"
	"github.com/tailored-agentic-units/statewire/serialization"
)

// Store event types.
const (
	EventSave   observability.EventType = "store.save"
	EventLoad   observability.EventType = "store.load"
	EventDelete observability.EventType = "store.delete"
	EventList   observability.EventType = "store.list"
)

type observedStore struct {
	next     Store
	observer observability.Observer
	backend  string
}

// Observe wraps s so every operation emits an event to o. Failed
// operations are reported at LevelWarning.
func Observe(s Store, backend string, o observability.Observer) Store {
	if o == nil {
		return s
	}
	return &observedStore{next: s, observer: o, backend: backend}
}

func (o *observedStore) emit(ctx context.Context, t observability.EventType, runID string, start time.Time, err error) {
	level := observability.LevelVerbose
	data := map[string]any{
		"backend":  o.backend,
		"duration": time.Since(start).String(),
	}
	if runID != "" {
		data["run_id"] = runID
	}
	if err != nil {
		level = observability.LevelWarning
		data["error"] = err.Error()
	}

	o.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "store." + o.backend,
		Data:      data,
	})
}

func (o *observedStore) Save(ctx context.Context, runID string, doc serialization.Document) error {
	start := time.Now()
	err := o.next.Save(ctx, runID, doc)
	o.emit(ctx, EventSave, runID, start, err)
	return err
}

func (o *observedStore) Load(ctx context.Context, runID string) (serialization.Document, error) {
	start := time.Now()
	doc, err := o.next.Load(ctx, runID)
	o.emit(ctx, EventLoad, runID, start, err)
	return doc, err
}

func (o *observedStore) Delete(ctx context.Context, runID string) error {
	start := time.Now()
	err := o.next.Delete(ctx, runID)
	o.emit(ctx, EventDelete, runID, start, err)
	return err
}

func (o *observedStore) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := o.next.List(ctx)
	o.emit(ctx, EventList, "", start, err)
	return ids, err
}
