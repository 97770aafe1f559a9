package serialization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/statewire/observability"
	"github.com/tailored-agentic-units/statewire/state"
	"github.com/tailored-agentic-units/statewire/version"
)

// Option configures a Serializer.
type Option func(*Serializer)

// WithRegistry overrides the default variant registry.
func WithRegistry(r *Registry) Option {
	return func(s *Serializer) { s.registry = r }
}

// WithObserver sets the observer that receives dump and load events.
func WithObserver(o observability.Observer) Option {
	return func(s *Serializer) { s.observer = o }
}

// WithVersion overrides the string stamped into __version__.
func WithVersion(v string) Option {
	return func(s *Serializer) { s.version = v }
}

// Serializer dumps states to documents and loads them back. It holds no
// mutable state and is safe for concurrent use.
type Serializer struct {
	registry *Registry
	observer observability.Observer
	version  string
}

// New creates a Serializer over the default registry. Events are discarded
// unless an observer is supplied.
func New(opts ...Option) *Serializer {
	s := &Serializer{
		registry: DefaultRegistry(),
		observer: observability.NoOpObserver{},
		version:  version.Version(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry the serializer resolves tags against.
func (s *Serializer) Registry() *Registry {
	return s.registry
}

// Dump converts st into a tagged document. On error no document is
// returned.
func (s *Serializer) Dump(st state.State) (Document, error) {
	doc, err := s.dump(st)
	if err != nil {
		s.emitError("dump", tagOf(st), err)
		return nil, err
	}

	s.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventDump,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "serialization.Dump",
		Data:      map[string]any{"tag": doc.Tag(), "fields": len(doc)},
	})
	return doc, nil
}

// Load reconstructs the state described by doc. Fields absent from doc
// keep their defaults; keys the variant does not declare are ignored. On
// error no state is returned.
func (s *Serializer) Load(doc Document) (state.State, error) {
	st, err := s.load(doc)
	if err != nil {
		s.emitError("load", doc.Tag(), err)
		return nil, err
	}

	s.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventLoad,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "serialization.Load",
		Data:      map[string]any{"tag": doc.Tag()},
	})
	return st, nil
}

func (s *Serializer) dump(st state.State) (Document, error) {
	tag, err := s.registry.TagOf(st)
	if err != nil {
		return nil, err
	}

	fields := bind(st, s)
	doc := make(Document, len(fields)+2)
	doc[KeyType] = tag
	for _, f := range fields {
		v, err := f.dump()
		if err != nil {
			return nil, fieldError(tag, f.name, err)
		}
		doc[f.name] = v
	}
	doc[KeyVersion] = s.version
	return doc, nil
}

func (s *Serializer) load(doc Document) (state.State, error) {
	raw, ok := doc[KeyType]
	if !ok || raw == nil {
		return nil, ErrMissingTypeTag
	}
	tag, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: type tag is %T", ErrInvalidField, raw)
	}
	if tag == "" {
		return nil, ErrMissingTypeTag
	}

	d, ok := s.registry.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTypeTag, tag)
	}

	st := d.New()
	for _, f := range bind(st, s) {
		v, present := doc[f.name]
		if !present || v == nil {
			continue
		}
		if err := f.load(v); err != nil {
			return nil, fieldError(tag, f.name, err)
		}
	}
	return st, nil
}

func (s *Serializer) emitError(op, tag string, err error) {
	s.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventError,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "serialization." + op,
		Data:      map[string]any{"tag": tag, "error": err.Error()},
	})
}

// fieldError wraps err with the failing field unless a nested dump or
// load already named one.
func fieldError(tag, name string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{Tag: tag, Field: name + "." + fe.Field, Err: fe.Err}
	}
	return &FieldError{Tag: tag, Field: name, Err: err}
}

func tagOf(st state.State) string {
	if state.IsNil(st) {
		return ""
	}
	return string(st.Kind())
}

var std = New()

// Dump converts st into a document using the default serializer.
func Dump(st state.State) (Document, error) {
	return std.Dump(st)
}

// Load reconstructs a state from doc using the default serializer.
func Load(doc Document) (state.State, error) {
	return std.Load(doc)
}
