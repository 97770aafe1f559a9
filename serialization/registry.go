package serialization

import (
	"fmt"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/statewire/state"
)

// Descriptor describes one registered variant.
type Descriptor struct {
	Tag    string
	New    func() state.State
	Fields []string
}

// Registry maps type tags to variant descriptors. Registration happens
// before the registry is shared; lookups are safe for concurrent use.
type Registry struct {
	byTag map[string]Descriptor
	mu    sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]Descriptor)}
}

// Register adds a variant under tag. The constructor must build a state
// whose Kind equals tag. Registering a tag twice returns
// ErrDuplicateRegistration.
func (r *Registry) Register(tag string, ctor func() state.State) error {
	if tag == "" || ctor == nil {
		return fmt.Errorf("%w: empty tag or constructor", ErrInvalidDescriptor)
	}

	sample := ctor()
	if state.IsNil(sample) {
		return fmt.Errorf("%w: %s constructor returned nil", ErrInvalidDescriptor, tag)
	}
	if string(sample.Kind()) != tag {
		return fmt.Errorf("%w: %s constructor builds %s", ErrInvalidDescriptor, tag, sample.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTag[tag]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, tag)
	}

	r.byTag[tag] = Descriptor{
		Tag:    tag,
		New:    ctor,
		Fields: fieldNames(sample),
	}
	return nil
}

// Lookup returns the descriptor registered under tag.
func (r *Registry) Lookup(tag string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byTag[tag]
	return d, ok
}

// TagOf returns the tag for s, dispatching on its exact variant. A nil
// interface or nil variant pointer yields ErrNilState.
func (r *Registry) TagOf(s state.State) (string, error) {
	if state.IsNil(s) {
		return "", ErrNilState
	}
	tag := string(s.Kind())
	if _, ok := r.Lookup(tag); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTypeTag, tag)
	}
	return tag, nil
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.byTag))
	for tag := range r.byTag {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Verify checks that the registered tags are exactly the variant set and
// that each descriptor constructs its own variant.
func (r *Registry) Verify() error {
	want := make([]string, 0, len(state.Kinds()))
	for _, k := range state.Kinds() {
		want = append(want, string(k))
	}
	slices.Sort(want)

	got := r.Tags()
	if !slices.Equal(got, want) {
		return fmt.Errorf("%w: registered %v, variants %v", ErrInvalidDescriptor, got, want)
	}

	for _, tag := range got {
		d, _ := r.Lookup(tag)
		if s := d.New(); state.IsNil(s) || string(s.Kind()) != tag {
			return fmt.Errorf("%w: %s does not construct its own variant", ErrInvalidDescriptor, tag)
		}
	}
	return nil
}

func fieldNames(s state.State) []string {
	fields := bind(s, nil)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

var defaultRegistry = mustDefaultRegistry()

// DefaultRegistry returns the registry holding every built-in variant.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func mustDefaultRegistry() *Registry {
	r := NewRegistry()
	ctors := []func() state.State{
		func() state.State { return &state.Pending{} },
		func() state.State { return &state.CachedState{} },
		func() state.State { return &state.Paused{} },
		func() state.State { return &state.Scheduled{} },
		func() state.State { return &state.Retrying{} },
		func() state.State { return &state.Running{} },
		func() state.State { return &state.Finished{} },
		func() state.State { return &state.Success{} },
		func() state.State { return &state.Skipped{} },
		func() state.State { return &state.Failed{} },
		func() state.State { return &state.TimedOut{} },
		func() state.State { return &state.TriggerFailed{} },
	}
	for _, ctor := range ctors {
		if err := r.Register(string(ctor().Kind()), ctor); err != nil {
			panic(err)
		}
	}
	if err := r.Verify(); err != nil {
		panic(err)
	}
	return r
}
