package settings

import (
	"math"
	"time"
)

const (
	LOOP_DELAY = 50 * time.Millisecond
	MS_TO_KPH  = 3.6
	KPH_TO_MS  = 1 / 3.6
	MPH_TO_MS  = 0.44704
)

var (
	R          = 6373000.0 // approximate radius of earth in meters
	TO_RADIANS = math.Pi / 180
)
