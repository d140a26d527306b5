package math

import (
	m "math"

	ms "pfeifer.dev/mtsc/settings"
)

func NewPosition(latDeg, lonDeg float64) Position {
	return Position{latitudeDeg: latDeg, longitudeDeg: lonDeg}
}

type Position struct {
	latitudeDeg  float64
	longitudeDeg float64
}

func (p *Position) LatRad() float64 {
	return p.latitudeDeg * ms.TO_RADIANS
}

func (p *Position) LonRad() float64 {
	return p.longitudeDeg * ms.TO_RADIANS
}

func (p *Position) Lat() float64 {
	return p.latitudeDeg
}

func (p *Position) Lon() float64 {
	return p.longitudeDeg
}

// IsZero reports whether both coordinates are exactly zero.
func (p *Position) IsZero() bool {
	return p.latitudeDeg == 0 && p.longitudeDeg == 0
}

// Equals compares coordinates exactly, without any tolerance.
func (p *Position) Equals(other Position) bool {
	return p.latitudeDeg == other.latitudeDeg && p.longitudeDeg == other.longitudeDeg
}

// DistanceTo is the haversine great circle distance in meters.
func (p *Position) DistanceTo(end Position) float64 {
	latDiff := end.LatRad() - p.LatRad()
	lonDiff := end.LonRad() - p.LonRad()
	a := m.Pow(m.Sin(latDiff/2), 2) + m.Cos(p.LatRad())*m.Cos(end.LatRad())*m.Pow(m.Sin(lonDiff/2), 2)
	c := 2 * m.Atan2(m.Sqrt(a), m.Sqrt(1-a))

	return ms.R * c // in metres
}
