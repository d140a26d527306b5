package math

import (
	m "math"
)

// CalculateAccel is the acceleration after t seconds at constant jerk.
func CalculateAccel(t, jerk, aEgo float64) float64 {
	return aEgo + jerk*t
}

// CalculateVelocity is the velocity after t seconds at constant jerk.
func CalculateVelocity(t, jerk, aEgo, vEgo float64) float64 {
	return vEgo + aEgo*t + jerk/2*(t*t)
}

// CalculateDistance is the distance covered after t seconds at constant jerk.
func CalculateDistance(t, jerk, aEgo, vEgo float64) float64 {
	return t*vEgo + aEgo/2*(t*t) + jerk/6*(t*t*t)
}

// JerkProfile describes a two phase slow down: acceleration ramps from the
// current value to the target acceleration at constant jerk, then the target
// acceleration is held until the target velocity is reached.
type JerkProfile struct {
	// Phase 1: constant jerk
	T1 float64 // duration
	V1 float64 // velocity at end of phase 1
	D1 float64 // distance traveled in phase 1
	A1 float64 // acceleration at end of phase 1

	// Phase 2: constant acceleration
	T2 float64
	D2 float64

	// ReachedInRamp is set when the target velocity is met before phase 1 completes.
	ReachedInRamp bool

	TotalTime     float64
	TotalDistance float64
}

// CalculateJerkLimitedDistance calculates the distance required to go from
// vEgo to vTarget by ramping acceleration from aEgo to targetAccel at the
// given signed jerk and then holding targetAccel.
//
// ok is false when the target velocity is met inside the ramp but the ramp
// equation has no real, non-negative solution for the time.
func CalculateJerkLimitedDistance(vEgo, aEgo, vTarget, targetAccel, jerk float64) (profile JerkProfile, ok bool) {
	profile.T1 = m.Abs((aEgo - targetAccel) / jerk)
	profile.V1 = CalculateVelocity(profile.T1, jerk, aEgo, vEgo)

	if vTarget > profile.V1 {
		// Solve: 0.5*j*t² + a0*t + (v0 - vTarget) = 0
		a := 0.5 * jerk
		b := aEgo
		c := vEgo - vTarget

		discriminant := b*b - 4*a*c
		if discriminant < 0 || m.IsNaN(discriminant) {
			return profile, false
		}
		sqrtDisc := m.Sqrt(discriminant)
		t := max((-b+sqrtDisc)/(2*a), (-b-sqrtDisc)/(2*a))
		if t < 0 || m.IsNaN(t) {
			return profile, false
		}

		profile.ReachedInRamp = true
		profile.T1 = t
		profile.V1 = vTarget
		profile.D1 = CalculateDistance(t, jerk, aEgo, vEgo)
	} else {
		profile.D1 = CalculateDistance(profile.T1, jerk, aEgo, vEgo)
		profile.T2 = m.Abs((profile.V1 - vTarget) / targetAccel)
		profile.D2 = CalculateDistance(profile.T2, 0, targetAccel, profile.V1)
	}

	profile.A1 = CalculateAccel(profile.T1, jerk, aEgo)
	profile.TotalTime = profile.T1 + profile.T2
	profile.TotalDistance = profile.D1 + profile.D2
	return profile, true
}
