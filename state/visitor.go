package state

// Visitor has one method per variant. Implementations handle every variant
// by construction.
type Visitor interface {
	VisitPending(s *Pending)
	VisitCachedState(s *CachedState)
	VisitPaused(s *Paused)
	VisitScheduled(s *Scheduled)
	VisitRetrying(s *Retrying)
	VisitRunning(s *Running)
	VisitFinished(s *Finished)
	VisitSuccess(s *Success)
	VisitSkipped(s *Skipped)
	VisitFailed(s *Failed)
	VisitTimedOut(s *TimedOut)
	VisitTriggerFailed(s *TriggerFailed)
}
