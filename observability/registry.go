package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrUnknownObserver is returned by New for an unregistered name.
var ErrUnknownObserver = errors.New("unknown observer")

// Factory builds an observer around the process logger.
type Factory func(logger *slog.Logger) Observer

var (
	factories = map[string]Factory{
		"noop": func(*slog.Logger) Observer { return NoOpObserver{} },
		"slog": func(l *slog.Logger) Observer { return NewSlogObserver(l) },
	}
	mutex sync.RWMutex
)

// New builds the observer registered under name. Pre-registered names are
// "noop" and "slog".
func New(name string, logger *slog.Logger) (Observer, error) {
	mutex.RLock()
	f, ok := factories[name]
	mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}
	return f(logger), nil
}

// Register adds or replaces a named observer factory.
func Register(name string, f Factory) {
	mutex.Lock()
	defer mutex.Unlock()

	factories[name] = f
}

// Names returns the registered observer names in sorted order.
func Names() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
