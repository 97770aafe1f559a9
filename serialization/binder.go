package serialization

import "github.com/tailored-agentic-units/statewire/state"

// binder collects the field codecs for one state value. Every variant
// starts with message and result; the Visit methods append the rest.
type binder struct {
	nested nester
	fields []field
}

func bind(s state.State, n nester) []field {
	base := s.Common()
	b := &binder{
		nested: n,
		fields: []field{
			stringField(KeyMessage, &base.Message),
			payloadField(KeyResult, &base.Result),
		},
	}
	s.Accept(b)
	return b.fields
}

func (b *binder) add(f ...field) {
	b.fields = append(b.fields, f...)
}

func (b *binder) VisitPending(s *state.Pending) {
	b.add(payloadField(KeyCachedInputs, &s.CachedInputs))
}

func (b *binder) VisitCachedState(s *state.CachedState) {
	b.add(
		payloadField(KeyCachedInputs, &s.CachedInputs),
		payloadField(KeyCachedResult, &s.CachedResult),
		payloadField(KeyCachedParameters, &s.CachedParameters),
		timeField(KeyCachedResultExpiration, &s.CachedResultExpiration),
	)
}

func (b *binder) VisitPaused(s *state.Paused) {
	b.add(payloadField(KeyCachedInputs, &s.CachedInputs))
}

func (b *binder) VisitScheduled(s *state.Scheduled) {
	b.add(
		payloadField(KeyCachedInputs, &s.CachedInputs),
		timeField(KeyStartTime, &s.StartTime),
	)
}

func (b *binder) VisitRetrying(s *state.Retrying) {
	b.add(
		payloadField(KeyCachedInputs, &s.CachedInputs),
		timeField(KeyStartTime, &s.StartTime),
		intField(KeyRunCount, &s.RunCount),
	)
}

func (b *binder) VisitRunning(*state.Running)   {}
func (b *binder) VisitFinished(*state.Finished) {}

func (b *binder) VisitSuccess(s *state.Success) {
	b.add(cachedField(KeyCached, &s.Cached, b.nested))
}

func (b *binder) VisitSkipped(s *state.Skipped) {
	b.add(cachedField(KeyCached, &s.Cached, b.nested))
}

func (b *binder) VisitFailed(*state.Failed) {}

func (b *binder) VisitTimedOut(s *state.TimedOut) {
	b.add(payloadField(KeyCachedInputs, &s.CachedInputs))
}

func (b *binder) VisitTriggerFailed(*state.TriggerFailed) {}
