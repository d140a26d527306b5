package utils

import (
	"time"

	m "pfeifer.dev/mtsc/math"
)

// UpdateTracker measures the interval between successive updates.
type UpdateTracker struct {
	LastTime time.Time
	Time     time.Time
	DiffMA   m.MovingAverage
}

func (u *UpdateTracker) Init(maLength int) {
	u.LastTime = time.Now()
	u.Time = time.Now()
	u.DiffMA.Init(maLength)
}

func (u *UpdateTracker) Update() {
	u.LastTime = u.Time
	u.Time = time.Now()
	u.DiffMA.Update(u.Time.Sub(u.LastTime).Seconds())
}

// Interval is the averaged time between updates.
func (u *UpdateTracker) Interval() time.Duration {
	return time.Duration(u.DiffMA.Estimate * float64(time.Second))
}

// Last is the most recent interval between updates.
func (u *UpdateTracker) Last() time.Duration {
	return time.Duration(u.DiffMA.Raw() * float64(time.Second))
}
