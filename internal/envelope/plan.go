package envelope

import (
	"sort"
	"time"
)

// Plan holds the stage offsets measured from activation.
type Plan struct {
	SealBreak  time.Duration
	LightSweep time.Duration
	Particles  time.Duration
	Reveal     time.Duration
}

// DefaultPlan is the stock opening sequence.
func DefaultPlan() Plan {
	return Plan{
		SealBreak:  0,
		LightSweep: 200 * time.Millisecond,
		Particles:  500 * time.Millisecond,
		Reveal:     2500 * time.Millisecond,
	}
}

// StageAt is one stage with its offset from activation.
type StageAt struct {
	Stage Stage         `json:"stage"`
	At    time.Duration `json:"-"`
	AtMS  int64         `json:"at_ms"`
}

// Stages returns the plan in firing order; reveal is always last.
func (p Plan) Stages() []StageAt {
	out := []StageAt{
		{Stage: StageSealBreak, At: p.SealBreak},
		{Stage: StageLightSweep, At: p.LightSweep},
		{Stage: StageParticles, At: p.Particles},
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	out = append(out, StageAt{Stage: StageReveal, At: p.Reveal})
	for i := range out {
		out[i].AtMS = out[i].At.Milliseconds()
	}
	return out
}

// normalized returns DefaultPlan for a zero plan, clamps negative offsets and
// keeps reveal at or after every other stage.
func (p Plan) normalized() Plan {
	if p == (Plan{}) {
		return DefaultPlan()
	}
	clamp := func(d time.Duration) time.Duration {
		if d < 0 {
			return 0
		}
		return d
	}
	p.SealBreak = clamp(p.SealBreak)
	p.LightSweep = clamp(p.LightSweep)
	p.Particles = clamp(p.Particles)
	p.Reveal = clamp(p.Reveal)
	for _, d := range []time.Duration{p.SealBreak, p.LightSweep, p.Particles} {
		if d > p.Reveal {
			p.Reveal = d
		}
	}
	return p
}

// Total is the time from activation to reveal.
func (p Plan) Total() time.Duration {
	return p.normalized().Reveal
}

// Snapshot is the serializable description of a gate for a page payload, so
// a client can replay the identical schedule.
type Snapshot struct {
	InitialState State     `json:"initial_state"`
	CanSkip      bool      `json:"can_skip"`
	AudioURL     string    `json:"audio_url,omitempty"`
	Haptic       []int64   `json:"haptic_ms"`
	Stages       []StageAt `json:"stages"`
}

// Describe builds the Snapshot for cfg.
func Describe(cfg Config) Snapshot {
	haptic := cfg.Haptic
	if haptic == nil {
		haptic = HapticMedium
	}
	ms := make([]int64, 0, len(haptic))
	for _, d := range haptic {
		ms = append(ms, d.Milliseconds())
	}
	return Snapshot{
		InitialState: InitialState(cfg),
		CanSkip:      cfg.CanSkip,
		AudioURL:     cfg.AudioURL,
		Haptic:       ms,
		Stages:       cfg.Plan.normalized().Stages(),
	}
}
