package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "pfeifer.dev/mtsc/math"
	ms "pfeifer.dev/mtsc/settings"
)

const (
	baseLat = 39.9
	baseLon = -83.0
)

var testLimits = Limits{Jerk: -0.6, Accel: -1.2, Offset: 1.0}

// ahead is a point the given number of meters north of the base position.
func ahead(meters float64) m.Position {
	return m.NewPosition(baseLat+meters/(ms.R*ms.TO_RADIANS), baseLon)
}

func target(meters, velocity float64) SpeedTarget {
	return SpeedTarget{Pos: ahead(meters), Velocity: velocity}
}

type fakePosition struct {
	pos     m.Position
	success bool
}

func (f *fakePosition) Position() (m.Position, bool) {
	return f.pos, f.success
}

type fakeTargets struct {
	targets []SpeedTarget
	success bool
}

func (f *fakeTargets) Targets() ([]SpeedTarget, bool) {
	return f.targets, f.success
}

func newTestPlanner(t *testing.T, targets ...SpeedTarget) (*Planner, *fakePosition, *fakeTargets) {
	t.Helper()
	pos := &fakePosition{pos: ahead(0), success: true}
	tvs := &fakeTargets{targets: targets, success: true}
	p, err := New(pos, tvs, testLimits)
	require.NoError(t, err)
	return p, pos, tvs
}

func TestNewRequiresJerk(t *testing.T) {
	_, err := New(&fakePosition{}, &fakeTargets{}, Limits{Accel: -1.2, Offset: 1.0})
	assert.Error(t, err)

	_, err = New(&fakePosition{}, &fakeTargets{}, Limits{Jerk: -0.6, Accel: 0.5, Offset: 1.0})
	assert.Error(t, err)

	_, err = New(&fakePosition{}, &fakeTargets{}, Limits{Jerk: -0.6, Accel: -1.2, Offset: -1})
	assert.Error(t, err)
}

func TestLimitsFromSettings(t *testing.T) {
	s := ms.MtscSettings{}
	s.Default()
	assert.Error(t, LimitsFromSettings(s).Validate(), "jerk has no default")

	s.TargetJerk = -0.6
	limits := LimitsFromSettings(s)
	assert.NoError(t, limits.Validate())
	assert.Equal(t, Limits{Jerk: -0.6, Accel: -1.2, Offset: 1.0}, limits)
}

func TestNewPlannerHasNoLatch(t *testing.T) {
	p, _, _ := newTestPlanner(t)

	latch, active := p.Latch()
	assert.False(t, active)
	assert.Equal(t, SpeedTarget{}, latch)
}

func TestTargetInsideBrakingDistance(t *testing.T) {
	// 30 m/s to 10 m/s needs ~363 m plus 10 m of offset
	p, _, _ := newTestPlanner(t, target(300, 10))

	assert.Equal(t, 10.0, p.TargetSpeed(30, 0))
}

func TestTargetOutsideBrakingDistance(t *testing.T) {
	p, _, _ := newTestPlanner(t, target(500, 10))

	assert.Equal(t, 0.0, p.TargetSpeed(30, 0))
	_, active := p.Latch()
	assert.False(t, active)
}

func TestFasterTargetsAreIgnored(t *testing.T) {
	p, _, _ := newTestPlanner(t, target(5, 26), target(10, 30))

	res := p.Update(25, 0)
	assert.Equal(t, 0.0, res.TargetSpeed)
	assert.True(t, res.Available)
	for _, c := range res.Plan.Forward {
		assert.False(t, c.Evaluated)
		assert.False(t, c.Feasible)
	}
}

func TestSlowestFeasibleTargetWins(t *testing.T) {
	p, _, _ := newTestPlanner(t, target(50, 20), target(100, 15))

	assert.Equal(t, 15.0, p.TargetSpeed(25, 0))
	latch, active := p.Latch()
	assert.True(t, active)
	assert.True(t, latch.Matches(target(100, 15)))
}

func TestEqualSpeedsFirstSeenWins(t *testing.T) {
	first := target(60, 15)
	second := target(120, 15)
	p, _, _ := newTestPlanner(t, first, second)

	assert.Equal(t, 15.0, p.TargetSpeed(25, 0))
	latch, _ := p.Latch()
	assert.True(t, latch.Matches(first))
}

func TestTargetsBehindNearestAreDropped(t *testing.T) {
	behind := target(-60, 5)
	nearest := target(10, 24)
	p, _, _ := newTestPlanner(t, behind, nearest, target(100, 20))

	res := p.Update(25, 0)
	require.Len(t, res.Plan.Forward, 2)
	assert.True(t, res.Plan.Forward[0].Target.Matches(nearest))
	assert.Equal(t, 20.0, res.TargetSpeed)
}

func TestNearestTieKeepsFirstIndex(t *testing.T) {
	// the same point listed twice is equally near, the first listing starts the window
	p, _, _ := newTestPlanner(t, target(-100, 5), target(40, 20), target(40, 15))

	res := p.Update(25, 0)
	require.Len(t, res.Plan.Forward, 2)
	assert.Equal(t, 20.0, res.Plan.Forward[0].Target.Velocity)
	assert.Equal(t, 15.0, res.TargetSpeed)
}

func TestCandidateDistances(t *testing.T) {
	p, _, _ := newTestPlanner(t, target(100, 20), target(300, 10))

	res := p.Update(25, 0)
	require.Len(t, res.Plan.Forward, 2)
	assert.InDelta(t, 100, res.Plan.Forward[0].Distance, 1e-6)
	assert.InDelta(t, 300, res.Plan.Forward[1].Distance, 1e-6)
	assert.InDelta(t, 138.55, res.Plan.Forward[0].Required, 1e-6)
	assert.True(t, res.Plan.Forward[0].Feasible)
	assert.False(t, res.Plan.Forward[1].Feasible)
}

func TestUnavailablePositionLeavesLatch(t *testing.T) {
	p, pos, _ := newTestPlanner(t, target(100, 15))
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	pos.success = false
	res := p.Update(25, 0)
	assert.Equal(t, 0.0, res.TargetSpeed)
	assert.False(t, res.Available)

	latch, active := p.Latch()
	assert.True(t, active)
	assert.True(t, latch.Matches(target(100, 15)))
}

func TestUnavailableTargetsLeavesLatch(t *testing.T) {
	p, _, tvs := newTestPlanner(t, target(100, 15))
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	tvs.success = false
	assert.Equal(t, 0.0, p.TargetSpeed(25, 0))

	latch, active := p.Latch()
	assert.True(t, active)
	assert.True(t, latch.Matches(target(100, 15)))
}

func TestLatchHoldsAgainstLessRestrictiveTarget(t *testing.T) {
	latched := target(130, 15)
	p, _, tvs := newTestPlanner(t, latched)
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	// at 21 m/s the latched point is outside its envelope while a 20 m/s
	// target is feasible, the latch still wins because it is in the window
	tvs.targets = []SpeedTarget{target(50, 20), latched}
	res := p.Update(21, 0)
	require.Len(t, res.Plan.Forward, 2)
	require.NotNil(t, res.Plan.Best)
	assert.Equal(t, 20.0, res.Plan.Best.Velocity)
	assert.False(t, res.Plan.Forward[1].Feasible)
	assert.Equal(t, 15.0, res.TargetSpeed)
	assert.True(t, res.Held)
}

func TestLatchHoldsWhenNothingIsFeasible(t *testing.T) {
	latched := target(100, 15)
	p, _, _ := newTestPlanner(t, latched)
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	// now slower than the target, nothing is evaluated
	res := p.Update(10, 0)
	assert.Nil(t, res.Plan.Best)
	assert.Equal(t, 15.0, res.TargetSpeed)
	assert.True(t, res.Held)
}

func TestMoreRestrictiveTargetReplacesLatch(t *testing.T) {
	p, _, tvs := newTestPlanner(t, target(100, 20))
	require.Equal(t, 20.0, p.TargetSpeed(25, 0))

	tvs.targets = []SpeedTarget{target(100, 20), target(150, 15)}
	res := p.Update(25, 0)
	assert.Equal(t, 15.0, res.TargetSpeed)
	assert.False(t, res.Held)

	latch, _ := p.Latch()
	assert.True(t, latch.Matches(target(150, 15)))
}

func TestLatchIsMatchedExactly(t *testing.T) {
	p, _, tvs := newTestPlanner(t, target(130, 15))
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	moved := target(130, 15)
	moved.Pos = m.NewPosition(moved.Pos.Lat()+1e-9, moved.Pos.Lon())
	tvs.targets = []SpeedTarget{target(50, 20), moved}

	// the latched point is gone, so the new scan decides
	assert.Equal(t, 20.0, p.TargetSpeed(21, 0))
}

func TestLatchReleasedAfterPassingTarget(t *testing.T) {
	latched := target(100, 15)
	p, pos, tvs := newTestPlanner(t, target(20, 24), latched, target(400, 22))
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	// drive past the latched point, the next target is now the nearest
	pos.pos = ahead(300)
	tvs.targets = []SpeedTarget{target(20, 24), latched, target(400, 22)}
	res := p.Update(25, 0)
	require.Len(t, res.Plan.Forward, 1)
	assert.Equal(t, 22.0, res.TargetSpeed)
	assert.False(t, res.Held)

	latch, _ := p.Latch()
	assert.True(t, latch.Matches(target(400, 22)))
}

func TestLatchClearedWhenPassedAndNothingFeasible(t *testing.T) {
	p, pos, _ := newTestPlanner(t, target(100, 15), target(2000, 22))
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	pos.pos = ahead(1500)
	assert.Equal(t, 0.0, p.TargetSpeed(25, 0))
	_, active := p.Latch()
	assert.False(t, active)
}

func TestEmptyTargetList(t *testing.T) {
	p, _, tvs := newTestPlanner(t, target(100, 15))
	require.Equal(t, 15.0, p.TargetSpeed(25, 0))

	tvs.targets = []SpeedTarget{}
	res := p.Update(25, 0)
	assert.True(t, res.Available)
	assert.Empty(t, res.Plan.Forward)
	assert.Equal(t, 0.0, res.TargetSpeed)
	_, active := p.Latch()
	assert.False(t, active)
}

func TestEvaluateDoesNotLatch(t *testing.T) {
	plan := Evaluate(ahead(0), []SpeedTarget{target(100, 15)}, 25, 0, testLimits)

	require.NotNil(t, plan.Best)
	assert.Equal(t, 15.0, plan.Best.Velocity)
	assert.True(t, plan.Contains(target(100, 15)))
	assert.False(t, plan.Contains(target(100, 16)))
}

func TestTargetActiveInsideJerkRamp(t *testing.T) {
	// 24.5 m/s is reached before the deceleration ramp completes
	p, _, _ := newTestPlanner(t, target(20, 24.5))

	res := p.Update(25, 0)
	require.Len(t, res.Plan.Forward, 1)
	c := res.Plan.Forward[0]
	assert.True(t, c.Evaluated)
	assert.True(t, c.Feasible)
	assert.InDelta(t, 56.5597, c.Required, 1e-3)
	assert.Equal(t, 24.5, res.TargetSpeed)

	latch, active := p.Latch()
	assert.True(t, active)
	assert.True(t, latch.Matches(target(20, 24.5)))
}
