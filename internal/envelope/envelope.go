// Package envelope implements the animated gate shown before an invitation
// is revealed: Closed, then Opening (a timed stage sequence), then Revealed.
package envelope

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/aura-invites/backend/pkg/errors"
)

// State of the gate.
type State string

const (
	StateClosed   State = "closed"
	StateOpening  State = "opening"
	StateRevealed State = "revealed"
)

// Stage is one timed visual effect of the opening sequence.
type Stage string

const (
	StageSealBreak  Stage = "seal_break"
	StageLightSweep Stage = "light_sweep"
	StageParticles  Stage = "particles"
	StageReveal     Stage = "reveal"
)

// HapticPattern is a vibrate pattern of alternating on/off durations.
type HapticPattern []time.Duration

var (
	HapticLight  = HapticPattern{10 * time.Millisecond}
	HapticMedium = HapticPattern{20 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond}
	HapticHeavy  = HapticPattern{30 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}
)

// ErrUnsupported is returned by effects a platform cannot perform.
var ErrUnsupported = errors.New("effect not supported")

// Effects performs the side effects of the gate. Failures are logged and
// dropped. Effects must not call back into the Gate; the completion callback
// may, e.g. to Close it once revealed.
type Effects interface {
	PlayAudio(url string) error
	Haptic(p HapticPattern) error
	Stage(s Stage)
}

// NopEffects performs nothing.
type NopEffects struct{}

func (NopEffects) PlayAudio(string) error     { return nil }
func (NopEffects) Haptic(HapticPattern) error { return nil }
func (NopEffects) Stage(Stage)                {}

// Config of one gate instance.
type Config struct {
	CanSkip      bool
	SkipEnvelope bool
	AudioURL     string
	Haptic       HapticPattern
	Plan         Plan
	Logger       *zap.Logger
}

// Gate is the envelope state machine for a single view. Safe for concurrent
// use by timer callbacks and user input.
type Gate struct {
	cfg        Config
	clock      Clock
	fx         Effects
	onComplete func()
	logger     *zap.Logger

	mu      sync.Mutex
	state   State
	history []State
	fired   []Stage
	pending Timer
	closed  bool

	// fireMu serializes effect delivery so Close can wait out an in-flight
	// effect. completed is guarded by fireMu.
	fireMu    sync.Mutex
	completed bool
}

// New creates a gate. With SkipEnvelope the gate starts Revealed and the
// completion callback runs before New returns; Closed and Opening are never
// entered.
func New(cfg Config, clock Clock, fx Effects, onComplete func()) *Gate {
	if clock == nil {
		clock = RealClock{}
	}
	if fx == nil {
		fx = NopEffects{}
	}
	if onComplete == nil {
		onComplete = func() {}
	}
	if cfg.Haptic == nil {
		cfg.Haptic = HapticMedium
	}
	cfg.Plan = cfg.Plan.normalized()
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{
		cfg:        cfg,
		clock:      clock,
		fx:         fx,
		onComplete: onComplete,
		logger:     logger,
	}
	if cfg.SkipEnvelope {
		g.state = StateRevealed
		g.history = []State{StateRevealed}
		g.deliver(nil, true)
		return g
	}
	g.state = StateClosed
	g.history = []State{StateClosed}
	return g
}

// InitialState returns the state a gate built from cfg starts in.
func InitialState(cfg Config) State {
	if cfg.SkipEnvelope {
		return StateRevealed
	}
	return StateClosed
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Transitions returns every state entered, in order.
func (g *Gate) Transitions() []State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]State(nil), g.history...)
}

// StagesFired returns the stages reached so far, in order.
func (g *Gate) StagesFired() []Stage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Stage(nil), g.fired...)
}

// Activate opens the envelope. It only acts from Closed and reports whether
// it did; repeated activation never restarts the sequence.
func (g *Gate) Activate() bool {
	g.mu.Lock()
	if g.closed || g.state != StateClosed {
		g.mu.Unlock()
		return false
	}
	g.enter(StateOpening)
	g.mu.Unlock()

	g.entryEffects()
	g.step(0, 0)
	return true
}

// Skip jumps straight to Revealed when skipping is allowed.
func (g *Gate) Skip() bool {
	g.mu.Lock()
	if !g.cfg.CanSkip || g.closed || g.state == StateRevealed {
		g.mu.Unlock()
		return false
	}
	g.stopPending()
	g.enter(StateRevealed)
	g.mu.Unlock()

	g.deliver(nil, true)
	return true
}

// Close tears the gate down. Pending stages are cancelled and no effect or
// callback starts once Close returns. A completion callback that already
// started may still be running; it may itself call Close.
func (g *Gate) Close() {
	g.mu.Lock()
	g.closed = true
	g.stopPending()
	g.mu.Unlock()

	g.fireMu.Lock()
	defer g.fireMu.Unlock()
}

func (g *Gate) enter(s State) {
	g.state = s
	g.history = append(g.history, s)
}

func (g *Gate) stopPending() {
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

func (g *Gate) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// entryEffects runs the best-effort audio and haptic pulse on activation.
func (g *Gate) entryEffects() {
	g.fireMu.Lock()
	defer g.fireMu.Unlock()
	if g.isClosed() {
		return
	}
	if g.cfg.AudioURL != "" {
		apperrors.BestEffort(g.logger, "envelope audio", g.fx.PlayAudio(g.cfg.AudioURL))
	}
	apperrors.BestEffort(g.logger, "envelope haptic", g.fx.Haptic(g.cfg.Haptic))
}

// step fires stage i of the plan once its offset is reached. Stages are
// chained one timer at a time so they stay strictly ordered.
func (g *Gate) step(i int, elapsed time.Duration) {
	stages := g.cfg.Plan.Stages()
	if i >= len(stages) {
		return
	}
	next := stages[i]
	wait := next.At - elapsed
	if wait <= 0 {
		g.fire(i, next.Stage)
		return
	}
	g.mu.Lock()
	if g.closed || g.state != StateOpening {
		g.mu.Unlock()
		return
	}
	g.pending = g.clock.AfterFunc(wait, func() { g.fire(i, next.Stage) })
	g.mu.Unlock()
}

func (g *Gate) fire(i int, stage Stage) {
	g.mu.Lock()
	if g.closed || g.state != StateOpening {
		g.mu.Unlock()
		return
	}
	g.pending = nil
	g.fired = append(g.fired, stage)
	reveal := stage == StageReveal
	if reveal {
		g.enter(StateRevealed)
	}
	g.mu.Unlock()

	s := stage
	g.deliver(&s, reveal)
	if !reveal {
		g.step(i+1, g.cfg.Plan.Stages()[i].At)
	}
}

// deliver runs the stage effect and, when done is set, the completion
// callback. The callback runs at most once, outside fireMu.
func (g *Gate) deliver(stage *Stage, done bool) {
	g.fireMu.Lock()
	if g.isClosed() {
		g.fireMu.Unlock()
		return
	}
	if stage != nil {
		g.fx.Stage(*stage)
	}
	complete := done && !g.completed
	if complete {
		g.completed = true
	}
	g.fireMu.Unlock()

	if complete {
		g.onComplete()
	}
}
