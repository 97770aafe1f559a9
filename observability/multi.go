package observability

import "context"

// MultiObserver fans events out to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver skips nil observers and flattens nested MultiObservers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	flat := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil:
		case *MultiObserver:
			flat = append(flat, o.observers...)
		default:
			flat = append(flat, o)
		}
	}
	return &MultiObserver{observers: flat}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// LevelFilter forwards events at or above a minimum level.
type LevelFilter struct {
	min  Level
	next Observer
}

// NewLevelFilter wraps next so that events below min are dropped.
func NewLevelFilter(min Level, next Observer) *LevelFilter {
	return &LevelFilter{min: min, next: next}
}

func (f *LevelFilter) OnEvent(ctx context.Context, event Event) {
	if event.Level >= f.min {
		f.next.OnEvent(ctx, event)
	}
}
