package state

// parents records each variant's ancestor; roots map to "".
var parents = map[Kind]Kind{
	KindPending:       "",
	KindCachedState:   KindPending,
	KindPaused:        KindPending,
	KindScheduled:     KindPending,
	KindRetrying:      KindScheduled,
	KindRunning:       "",
	KindFinished:      "",
	KindSuccess:       KindFinished,
	KindSkipped:       KindSuccess,
	KindFailed:        KindFinished,
	KindTimedOut:      KindFailed,
	KindTriggerFailed: KindFailed,
}

// Parent returns the ancestor of k, or "" for a root variant.
func (k Kind) Parent() Kind {
	return parents[k]
}

// Is reports whether s is of the given kind or descends from it.
func Is(s State, kind Kind) bool {
	if s == nil {
		return false
	}
	for k := s.Kind(); k != ""; k = parents[k] {
		if k == kind {
			return true
		}
	}
	return false
}

func IsPending(s State) bool    { return Is(s, KindPending) }
func IsScheduled(s State) bool  { return Is(s, KindScheduled) }
func IsRetrying(s State) bool   { return Is(s, KindRetrying) }
func IsRunning(s State) bool    { return Is(s, KindRunning) }
func IsFinished(s State) bool   { return Is(s, KindFinished) }
func IsSuccessful(s State) bool { return Is(s, KindSuccess) }
func IsSkipped(s State) bool    { return Is(s, KindSkipped) }
func IsFailed(s State) bool     { return Is(s, KindFailed) }
