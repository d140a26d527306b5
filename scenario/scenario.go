// Package scenario replays recorded or hand written drives through a planner.
package scenario

import (
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
	m "pfeifer.dev/mtsc/math"
	"pfeifer.dev/mtsc/planner"
	ms "pfeifer.dev/mtsc/settings"
)

type Target struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Velocity  float64 `yaml:"velocity"`
}

type Frame struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	VEgo      float64 `yaml:"v_ego"`
	AEgo      float64 `yaml:"a_ego"`

	// Targets replaces the target list from this frame on.
	Targets []Target `yaml:"targets"`

	NoPosition bool `yaml:"no_position"`
	NoTargets  bool `yaml:"no_targets"`
}

// Overrides are applied on top of the stored settings.
type Overrides struct {
	TargetJerk   *float64 `yaml:"target_jerk"`
	TargetAccel  *float64 `yaml:"target_accel"`
	TargetOffset *float64 `yaml:"target_offset"`
}

type Scenario struct {
	Name     string    `yaml:"name"`
	Settings Overrides `yaml:"settings"`
	Targets  []Target  `yaml:"targets"`
	Frames   []Frame   `yaml:"frames"`
}

func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.Wrap(err, "could not read scenario")
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, errors.Wrapf(err, "could not load scenario %s", path)
	}
	return s, nil
}

func Parse(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return Scenario{}, errors.Wrap(err, "could not parse scenario")
	}
	if len(s.Frames) == 0 {
		return Scenario{}, errors.New("scenario has no frames")
	}
	return s, nil
}

// Apply returns base with the scenario overrides set.
func (o Overrides) Apply(base ms.MtscSettings) ms.MtscSettings {
	if o.TargetJerk != nil {
		base.TargetJerk = *o.TargetJerk
	}
	if o.TargetAccel != nil {
		base.TargetAccel = *o.TargetAccel
	}
	if o.TargetOffset != nil {
		base.TargetOffset = *o.TargetOffset
	}
	return base
}

func toSpeedTargets(targets []Target) []planner.SpeedTarget {
	return lo.Map(targets, func(t Target, _ int) planner.SpeedTarget {
		return planner.SpeedTarget{
			Pos:      m.NewPosition(t.Latitude, t.Longitude),
			Velocity: t.Velocity,
		}
	})
}

// replay feeds the current frame to the planner.
type replay struct {
	frame   Frame
	targets []planner.SpeedTarget
}

func (r *replay) Position() (m.Position, bool) {
	if r.frame.NoPosition {
		return m.Position{}, false
	}
	return m.NewPosition(r.frame.Latitude, r.frame.Longitude), true
}

func (r *replay) Targets() ([]planner.SpeedTarget, bool) {
	if r.frame.NoTargets {
		return nil, false
	}
	return r.targets, true
}

type Row struct {
	Frame       int
	VEgo        float64
	AEgo        float64
	TargetSpeed float64
	Available   bool
	Held        bool
	Forward     int
	Feasible    int
	Latch       float64 // velocity of the latched target, 0 when none
}

// Run drives a single planner through every frame in order.
func Run(s Scenario, limits planner.Limits) ([]Row, error) {
	r := &replay{targets: toSpeedTargets(s.Targets)}
	p, err := planner.New(r, r, limits)
	if err != nil {
		return nil, errors.Wrap(err, "could not create planner")
	}

	rows := make([]Row, 0, len(s.Frames))
	for i, frame := range s.Frames {
		r.frame = frame
		if frame.Targets != nil {
			r.targets = toSpeedTargets(frame.Targets)
		}

		res := p.Update(frame.VEgo, frame.AEgo)
		latch, _ := p.Latch()
		rows = append(rows, Row{
			Frame:       i,
			VEgo:        frame.VEgo,
			AEgo:        frame.AEgo,
			TargetSpeed: res.TargetSpeed,
			Available:   res.Available,
			Held:        res.Held,
			Forward:     len(res.Plan.Forward),
			Feasible: lo.CountBy(res.Plan.Forward, func(c planner.Candidate) bool {
				return c.Feasible
			}),
			Latch: latch.Velocity,
		})
	}
	return rows, nil
}
