package planner

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	m "pfeifer.dev/mtsc/math"
	ms "pfeifer.dev/mtsc/settings"
)

// SpeedTarget is an upcoming point that should be passed at no more than Velocity.
type SpeedTarget struct {
	Pos      m.Position
	Velocity float64 // m/s
}

// Matches compares position and velocity exactly. Targets are expected to be
// reproduced bit for bit by the provider between cycles.
func (t SpeedTarget) Matches(other SpeedTarget) bool {
	return t.Pos.Equals(other.Pos) && t.Velocity == other.Velocity
}

type PositionProvider interface {
	Position() (pos m.Position, success bool)
}

type TargetListProvider interface {
	Targets() (targets []SpeedTarget, success bool)
}

// Limits shape the slow down profile used to decide when a target becomes active.
type Limits struct {
	Jerk   float64 // m/s^3, signed
	Accel  float64 // m/s^2, comfortable deceleration
	Offset float64 // s, multiplied by the target velocity for extra distance
}

func LimitsFromSettings(s ms.MtscSettings) Limits {
	return Limits{
		Jerk:   s.TargetJerk,
		Accel:  s.TargetAccel,
		Offset: s.TargetOffset,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (l Limits) Validate() error {
	if l.Jerk == 0 || !finite(l.Jerk) {
		return errors.Errorf("target jerk must be set to a finite nonzero value, got %v", l.Jerk)
	}
	if l.Accel >= 0 || !finite(l.Accel) {
		return errors.Errorf("target accel must be a finite negative value, got %v", l.Accel)
	}
	if l.Offset < 0 || !finite(l.Offset) {
		return errors.Errorf("target offset must be a finite value of at least zero, got %v", l.Offset)
	}
	return nil
}

// Candidate is a forward target together with how it was judged this cycle.
type Candidate struct {
	Target   SpeedTarget
	Distance float64 // m, great circle distance from the current position

	// Required is the slow down distance plus the offset distance. It is only
	// meaningful when Evaluated is set.
	Required  float64
	Evaluated bool
	Feasible  bool
}

// Plan is the outcome of one scan of the target list.
type Plan struct {
	Position m.Position
	Forward  []Candidate
	// Best is the slowest feasible candidate, nil when none is feasible.
	Best *SpeedTarget
}

// Contains reports whether the exact target is still in the forward window.
func (p Plan) Contains(target SpeedTarget) bool {
	return lo.ContainsBy(p.Forward, func(c Candidate) bool {
		return c.Target.Matches(target)
	})
}

type Result struct {
	TargetSpeed float64 // m/s, 0 when no restriction applies
	Plan        Plan
	// Available is false when the position or target list could not be read.
	Available bool
	// Held is set when the previously latched target overrode a less
	// restrictive result of this scan.
	Held bool
}
