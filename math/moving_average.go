package math

// MovingAverage is a fixed window average. The first sample fills the whole
// window so the estimate starts at the first value instead of ramping from zero.
type MovingAverage struct {
	values      []float64
	index       int
	initialized bool
	Estimate    float64
}

func NewMovingAverage(size int) MovingAverage {
	a := MovingAverage{}
	a.Init(size)
	return a
}

func (a *MovingAverage) Init(size int) {
	a.values = make([]float64, max(size, 1))
	a.initialized = false
	a.index = 0
	a.Estimate = 0
}

func (a *MovingAverage) Update(val float64) float64 {
	if len(a.values) == 0 {
		a.Init(1)
	}
	if !a.initialized {
		for i := range a.values {
			a.values[i] = val
		}
		a.initialized = true
		a.Estimate = val
		return val
	}
	a.index = (a.index + 1) % len(a.values)
	a.values[a.index] = val
	total := 0.0
	for _, v := range a.values {
		total += v
	}
	a.Estimate = total / float64(len(a.values))
	return a.Estimate
}

// Raw is the most recent sample.
func (a *MovingAverage) Raw() float64 {
	if len(a.values) == 0 {
		return 0
	}
	return a.values[a.index]
}
