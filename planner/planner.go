// Package planner picks a target speed for upcoming curves from a list of
// geo-tagged speed targets.
//
// Each cycle the targets behind the vehicle are dropped, the remaining ones
// that are slower than the vehicle are checked against a jerk limited slow
// down profile, and the slowest one that needs to be acted on now is chosen.
// Once a target is chosen it is latched: a less restrictive result is ignored
// until the latched point leaves the forward window.
//
// A Planner is not safe for concurrent use.
package planner

import (
	"log/slog"

	"github.com/samber/lo"
	m "pfeifer.dev/mtsc/math"
)

type Planner struct {
	positions PositionProvider
	targets   TargetListProvider
	limits    Limits
	latch     SpeedTarget
}

func New(positions PositionProvider, targets TargetListProvider, limits Limits) (*Planner, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &Planner{
		positions: positions,
		targets:   targets,
		limits:    limits,
	}, nil
}

func (p *Planner) Limits() Limits {
	return p.limits
}

// Latch returns the committed target, false when nothing is committed.
func (p *Planner) Latch() (SpeedTarget, bool) {
	return p.latch, p.latchActive()
}

func (p *Planner) latchActive() bool {
	return !p.latch.Pos.IsZero()
}

// TargetSpeed returns the speed to slow down to in m/s, 0 when no restriction applies.
func (p *Planner) TargetSpeed(vEgo, aEgo float64) float64 {
	return p.Update(vEgo, aEgo).TargetSpeed
}

// Update runs one planning cycle.
func (p *Planner) Update(vEgo, aEgo float64) Result {
	pos, success := p.positions.Position()
	if !success {
		slog.Debug("position unavailable, no curve speed")
		return Result{}
	}
	targets, success := p.targets.Targets()
	if !success {
		slog.Debug("target velocities unavailable, no curve speed")
		return Result{}
	}

	plan := Evaluate(pos, targets, vEgo, aEgo, p.limits)
	res := Result{Plan: plan, Available: true}

	if p.latchActive() && (plan.Best == nil || p.latch.Velocity < plan.Best.Velocity) {
		if plan.Contains(p.latch) {
			slog.Debug("holding latched curve speed", "v", p.latch.Velocity, "lat", p.latch.Pos.Lat(), "lon", p.latch.Pos.Lon())
			res.TargetSpeed = p.latch.Velocity
			res.Held = true
			return res
		}
		slog.Debug("released latched curve speed", "v", p.latch.Velocity, "lat", p.latch.Pos.Lat(), "lon", p.latch.Pos.Lon())
		p.latch = SpeedTarget{}
	}

	if plan.Best == nil {
		p.latch = SpeedTarget{}
		return res
	}

	if !p.latch.Matches(*plan.Best) {
		slog.Debug("latched curve speed", "v", plan.Best.Velocity, "lat", plan.Best.Pos.Lat(), "lon", plan.Best.Pos.Lon())
	}
	p.latch = *plan.Best
	res.TargetSpeed = plan.Best.Velocity
	return res
}

// Evaluate scans the targets from pos without touching any latch state.
func Evaluate(pos m.Position, targets []SpeedTarget, vEgo, aEgo float64, limits Limits) Plan {
	plan := Plan{Position: pos}

	distances := lo.Map(targets, func(tv SpeedTarget, _ int) float64 {
		return pos.DistanceTo(tv.Pos)
	})
	_, minIdx := lo.MinIndexBy(distances, func(a, b float64) bool {
		return a < b
	})
	if minIdx < 0 {
		minIdx = 0
	}

	plan.Forward = make([]Candidate, len(targets)-minIdx)
	for i := range plan.Forward {
		c := Candidate{
			Target:   targets[i+minIdx],
			Distance: distances[i+minIdx],
		}
		evaluateCandidate(&c, vEgo, aEgo, limits)
		plan.Forward[i] = c
	}

	feasible := lo.Filter(plan.Forward, func(c Candidate, _ int) bool {
		return c.Feasible
	})
	if len(feasible) > 0 {
		best := lo.MinBy(feasible, func(a, b Candidate) bool {
			return a.Target.Velocity < b.Target.Velocity
		}).Target
		plan.Best = &best
	}

	return plan
}

func evaluateCandidate(c *Candidate, vEgo, aEgo float64, limits Limits) {
	tv := c.Target.Velocity
	if tv > vEgo {
		// only slowing down for curves is planned
		return
	}

	profile, ok := m.CalculateJerkLimitedDistance(vEgo, aEgo, tv, limits.Accel, limits.Jerk)
	if !ok {
		return
	}

	c.Evaluated = true
	c.Required = profile.TotalDistance + tv*limits.Offset
	c.Feasible = c.Distance < c.Required
}
