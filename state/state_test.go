package state_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/statewire/payload"
	"github.com/tailored-agentic-units/statewire/state"
)

func TestNew_EveryKind(t *testing.T) {
	for _, kind := range state.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			s, err := state.New(kind)
			require.NoError(t, err)
			assert.Equal(t, kind, s.Kind())
			assert.Nil(t, s.Common().Message)
			assert.Nil(t, s.Common().Result)
			assert.True(t, kind.Valid())
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := state.New("FakeState")
	assert.Error(t, err)
	assert.False(t, state.Kind("FakeState").Valid())
}

func TestKinds_ReturnsCopy(t *testing.T) {
	k := state.Kinds()
	k[0] = "mutated"

	assert.Equal(t, state.KindPending, state.Kinds()[0])
}

func TestIs_Lineage(t *testing.T) {
	tests := []struct {
		name  string
		state state.State
		kind  state.Kind
		want  bool
	}{
		{name: "retrying is scheduled", state: &state.Retrying{}, kind: state.KindScheduled, want: true},
		{name: "retrying is pending", state: &state.Retrying{}, kind: state.KindPending, want: true},
		{name: "scheduled is not retrying", state: &state.Scheduled{}, kind: state.KindRetrying, want: false},
		{name: "skipped is success", state: &state.Skipped{}, kind: state.KindSuccess, want: true},
		{name: "skipped is finished", state: &state.Skipped{}, kind: state.KindFinished, want: true},
		{name: "timed out is failed", state: &state.TimedOut{}, kind: state.KindFailed, want: true},
		{name: "cached state is pending", state: &state.CachedState{}, kind: state.KindPending, want: true},
		{name: "running is not finished", state: &state.Running{}, kind: state.KindFinished, want: false},
		{name: "nil state", state: nil, kind: state.KindPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, state.Is(tt.state, tt.kind))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, state.IsPending(&state.Paused{}))
	assert.True(t, state.IsScheduled(&state.Retrying{}))
	assert.True(t, state.IsRetrying(&state.Retrying{}))
	assert.True(t, state.IsRunning(&state.Running{}))
	assert.True(t, state.IsFinished(&state.TriggerFailed{}))
	assert.True(t, state.IsSuccessful(&state.Skipped{}))
	assert.True(t, state.IsSkipped(&state.Skipped{}))
	assert.True(t, state.IsFailed(&state.TimedOut{}))

	assert.False(t, state.IsFinished(&state.Pending{}))
	assert.False(t, state.IsSuccessful(&state.Failed{}))
	assert.False(t, state.IsSkipped(&state.Success{}))
	assert.Equal(t, state.Kind(""), state.KindPending.Parent())
	assert.Equal(t, state.KindFinished, state.KindSuccess.Parent())
}

func TestEqual(t *testing.T) {
	utc := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	shifted := utc.In(time.FixedZone("plus2", 2*60*60))
	complexResult := payload.MustFrom(map[string]any{"x": 1, "y": map[string]any{"z": 2}})

	cached := func(exp time.Time) *state.CachedState {
		return &state.CachedState{
			CachedInputs:           complexResult,
			CachedResult:           complexResult,
			CachedParameters:       complexResult,
			CachedResultExpiration: state.At(exp),
		}
	}

	tests := []struct {
		name string
		a, b state.State
		want bool
	}{
		{name: "same empty", a: &state.Pending{}, b: &state.Pending{}, want: true},
		{name: "different kinds sharing fields", a: &state.Success{}, b: &state.Skipped{}, want: false},
		{name: "message differs", a: &state.Running{Base: state.Base{Message: state.Msg("a")}}, b: &state.Running{}, want: false},
		{name: "null result equals absent", a: &state.Failed{Base: state.Base{Result: payload.Null{}}}, b: &state.Failed{}, want: true},
		{name: "instant equality across zones", a: &state.Scheduled{StartTime: state.At(utc)}, b: &state.Scheduled{StartTime: state.At(shifted)}, want: true},
		{name: "run count differs", a: &state.Retrying{RunCount: 1}, b: &state.Retrying{RunCount: 2}, want: false},
		{name: "nested cached equal", a: &state.Success{Cached: cached(utc)}, b: &state.Success{Cached: cached(shifted)}, want: true},
		{name: "nested cached differs", a: &state.Success{Cached: cached(utc)}, b: &state.Success{Cached: cached(utc.Add(time.Second))}, want: false},
		{name: "nested cached missing", a: &state.Skipped{Cached: cached(utc)}, b: &state.Skipped{}, want: false},
		{name: "nil vs state", a: nil, b: &state.Pending{}, want: false},
		{name: "typed nil vs state", a: (*state.Pending)(nil), b: &state.Pending{}, want: false},
		{name: "state vs typed nil", a: &state.Success{}, b: (*state.Success)(nil), want: false},
		{name: "typed nil vs nil", a: (*state.Retrying)(nil), b: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, state.Equal(tt.a, tt.b))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "Pending", state.String(&state.Pending{}))
	assert.Equal(t, `Failed: "boom"`, state.String(&state.Failed{Base: state.Base{Message: state.Msg("boom")}}))
	assert.Equal(t, "<nil>", state.String(nil))
	assert.Equal(t, "<nil>", state.String((*state.Failed)(nil)))
}

func TestIsNil(t *testing.T) {
	assert.True(t, state.IsNil(nil))
	assert.True(t, state.IsNil((*state.Pending)(nil)))
	assert.True(t, state.IsNil((*state.CachedState)(nil)))
	assert.False(t, state.IsNil(&state.Pending{}))
}

// kindVisitor records which Visit method ran.
type kindVisitor struct{ got state.Kind }

func (v *kindVisitor) VisitPending(*state.Pending)             { v.got = state.KindPending }
func (v *kindVisitor) VisitCachedState(*state.CachedState)     { v.got = state.KindCachedState }
func (v *kindVisitor) VisitPaused(*state.Paused)               { v.got = state.KindPaused }
func (v *kindVisitor) VisitScheduled(*state.Scheduled)         { v.got = state.KindScheduled }
func (v *kindVisitor) VisitRetrying(*state.Retrying)           { v.got = state.KindRetrying }
func (v *kindVisitor) VisitRunning(*state.Running)             { v.got = state.KindRunning }
func (v *kindVisitor) VisitFinished(*state.Finished)           { v.got = state.KindFinished }
func (v *kindVisitor) VisitSuccess(*state.Success)             { v.got = state.KindSuccess }
func (v *kindVisitor) VisitSkipped(*state.Skipped)             { v.got = state.KindSkipped }
func (v *kindVisitor) VisitFailed(*state.Failed)               { v.got = state.KindFailed }
func (v *kindVisitor) VisitTimedOut(*state.TimedOut)           { v.got = state.KindTimedOut }
func (v *kindVisitor) VisitTriggerFailed(*state.TriggerFailed) { v.got = state.KindTriggerFailed }

func TestAccept_DispatchesToOwnVariant(t *testing.T) {
	for _, kind := range state.Kinds() {
		s, err := state.New(kind)
		require.NoError(t, err)

		v := &kindVisitor{}
		s.Accept(v)
		assert.Equal(t, kind, v.got)
	}
}
