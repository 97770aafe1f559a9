package state

import (
	"time"

	"github.com/tailored-agentic-units/statewire/payload"
)

// Pending is a work unit that is ready to run but has not started.
type Pending struct {
	Base
	CachedInputs payload.Value
}

// CachedState is a Pending state that carries a reusable cached result.
type CachedState struct {
	Base
	CachedInputs           payload.Value
	CachedResult           payload.Value
	CachedParameters       payload.Value
	CachedResultExpiration *time.Time
}

// Paused is a Pending state waiting for manual resumption.
type Paused struct {
	Base
	CachedInputs payload.Value
}

// Scheduled is a Pending state that becomes runnable at StartTime.
type Scheduled struct {
	Base
	CachedInputs payload.Value
	StartTime    *time.Time
}

// Retrying is a Scheduled state for a repeated run. RunCount counts the
// runs attempted so far.
type Retrying struct {
	Base
	CachedInputs payload.Value
	StartTime    *time.Time
	RunCount     int
}

// Running is a work unit currently executing.
type Running struct {
	Base
}

// Finished is a work unit that has stopped executing.
type Finished struct {
	Base
}

// Success is a Finished state whose run succeeded. Cached optionally holds
// the state to reuse on later runs.
type Success struct {
	Base
	Cached *CachedState
}

// Skipped is a Success whose run was deliberately not performed.
type Skipped struct {
	Base
	Cached *CachedState
}

// Failed is a Finished state whose run failed.
type Failed struct {
	Base
}

// TimedOut is a Failed state whose run exceeded its time limit.
type TimedOut struct {
	Base
	CachedInputs payload.Value
}

// TriggerFailed is a Failed state whose upstream trigger did not pass.
type TriggerFailed struct {
	Base
}

func (*Pending) Kind() Kind       { return KindPending }
func (*CachedState) Kind() Kind   { return KindCachedState }
func (*Paused) Kind() Kind        { return KindPaused }
func (*Scheduled) Kind() Kind     { return KindScheduled }
func (*Retrying) Kind() Kind      { return KindRetrying }
func (*Running) Kind() Kind       { return KindRunning }
func (*Finished) Kind() Kind      { return KindFinished }
func (*Success) Kind() Kind       { return KindSuccess }
func (*Skipped) Kind() Kind       { return KindSkipped }
func (*Failed) Kind() Kind        { return KindFailed }
func (*TimedOut) Kind() Kind      { return KindTimedOut }
func (*TriggerFailed) Kind() Kind { return KindTriggerFailed }

func (s *Pending) Accept(v Visitor)       { v.VisitPending(s) }
func (s *CachedState) Accept(v Visitor)   { v.VisitCachedState(s) }
func (s *Paused) Accept(v Visitor)        { v.VisitPaused(s) }
func (s *Scheduled) Accept(v Visitor)     { v.VisitScheduled(s) }
func (s *Retrying) Accept(v Visitor)      { v.VisitRetrying(s) }
func (s *Running) Accept(v Visitor)       { v.VisitRunning(s) }
func (s *Finished) Accept(v Visitor)      { v.VisitFinished(s) }
func (s *Success) Accept(v Visitor)       { v.VisitSuccess(s) }
func (s *Skipped) Accept(v Visitor)       { v.VisitSkipped(s) }
func (s *Failed) Accept(v Visitor)        { v.VisitFailed(s) }
func (s *TimedOut) Accept(v Visitor)      { v.VisitTimedOut(s) }
func (s *TriggerFailed) Accept(v Visitor) { v.VisitTriggerFailed(s) }

func (*Pending) sealed()       {}
func (*CachedState) sealed()   {}
func (*Paused) sealed()        {}
func (*Scheduled) sealed()     {}
func (*Retrying) sealed()      {}
func (*Running) sealed()       {}
func (*Finished) sealed()      {}
func (*Success) sealed()       {}
func (*Skipped) sealed()       {}
func (*Failed) sealed()        {}
func (*TimedOut) sealed()      {}
func (*TriggerFailed) sealed() {}
