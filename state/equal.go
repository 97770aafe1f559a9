package state

import (
	"time"

	"github.com/tailored-agentic-units/statewire/payload"
)

// Equal reports whether a and b are the same variant with semantically equal
// fields: payloads compare by value, timestamps by instant, and nested
// states recursively. A nil pointer to a variant counts as nil.
func Equal(a, b State) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	if a.Kind() != b.Kind() || !baseEqual(a.Common(), b.Common()) {
		return false
	}

	eq := &equalVisitor{other: b}
	a.Accept(eq)
	return eq.equal
}

type equalVisitor struct {
	other State
	equal bool
}

func (v *equalVisitor) VisitPending(s *Pending) {
	o := v.other.(*Pending)
	v.equal = payload.Equal(s.CachedInputs, o.CachedInputs)
}

func (v *equalVisitor) VisitCachedState(s *CachedState) {
	o := v.other.(*CachedState)
	v.equal = cachedEqual(s, o)
}

func (v *equalVisitor) VisitPaused(s *Paused) {
	o := v.other.(*Paused)
	v.equal = payload.Equal(s.CachedInputs, o.CachedInputs)
}

func (v *equalVisitor) VisitScheduled(s *Scheduled) {
	o := v.other.(*Scheduled)
	v.equal = payload.Equal(s.CachedInputs, o.CachedInputs) &&
		timeEqual(s.StartTime, o.StartTime)
}

func (v *equalVisitor) VisitRetrying(s *Retrying) {
	o := v.other.(*Retrying)
	v.equal = payload.Equal(s.CachedInputs, o.CachedInputs) &&
		timeEqual(s.StartTime, o.StartTime) &&
		s.RunCount == o.RunCount
}

func (v *equalVisitor) VisitRunning(*Running)   { v.equal = true }
func (v *equalVisitor) VisitFinished(*Finished) { v.equal = true }

func (v *equalVisitor) VisitSuccess(s *Success) {
	o := v.other.(*Success)
	v.equal = nestedEqual(s.Cached, o.Cached)
}

func (v *equalVisitor) VisitSkipped(s *Skipped) {
	o := v.other.(*Skipped)
	v.equal = nestedEqual(s.Cached, o.Cached)
}

func (v *equalVisitor) VisitFailed(*Failed) { v.equal = true }

func (v *equalVisitor) VisitTimedOut(s *TimedOut) {
	o := v.other.(*TimedOut)
	v.equal = payload.Equal(s.CachedInputs, o.CachedInputs)
}

func (v *equalVisitor) VisitTriggerFailed(*TriggerFailed) { v.equal = true }

func baseEqual(a, b *Base) bool {
	if (a.Message == nil) != (b.Message == nil) {
		return false
	}
	if a.Message != nil && *a.Message != *b.Message {
		return false
	}
	return payload.Equal(a.Result, b.Result)
}

func cachedEqual(a, b *CachedState) bool {
	return payload.Equal(a.CachedInputs, b.CachedInputs) &&
		payload.Equal(a.CachedResult, b.CachedResult) &&
		payload.Equal(a.CachedParameters, b.CachedParameters) &&
		timeEqual(a.CachedResultExpiration, b.CachedResultExpiration)
}

func nestedEqual(a, b *CachedState) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return baseEqual(&a.Base, &b.Base) && cachedEqual(a, b)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
