package utils

import (
	"math"
	"time"
)

// Float64Tracker remembers the previous value and when the value last changed.
type Float64Tracker struct {
	LastValue          float64
	Value              float64
	UpdatedTime        time.Time
	AllowNullLastValue bool
}

func (t *Float64Tracker) Update(val float64) (updated bool) {
	if t.Value == val || (math.IsNaN(t.Value) && math.IsNaN(val)) {
		return false
	}
	if t.AllowNullLastValue || !(math.IsNaN(t.Value) || t.Value == 0) {
		t.LastValue = t.Value
	}
	t.UpdatedTime = time.Now()
	t.Value = val
	return true
}

// Since is the time elapsed since the last change, zero before the first one.
func (t *Float64Tracker) Since() time.Duration {
	if t.UpdatedTime.IsZero() {
		return 0
	}
	return time.Since(t.UpdatedTime)
}
