package planner

import (
	"encoding/json"

	"github.com/pkg/errors"
	m "pfeifer.dev/mtsc/math"
	"pfeifer.dev/mtsc/params"
	"pfeifer.dev/mtsc/utils"
)

// ErrDataUnavailable covers every way an input can be missing or malformed.
var ErrDataUnavailable = errors.New("data unavailable")

type positionRecord struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type targetRecord struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Velocity  *float64 `json:"velocity"`
}

// TargetVelocity is the wire form of a SpeedTarget.
type TargetVelocity struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Velocity  float64 `json:"velocity"`
}

// ParsePosition reads a last known fix. Fields other than latitude and
// longitude are ignored.
func ParsePosition(data []byte) (m.Position, error) {
	var record *positionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return m.Position{}, errors.Wrapf(ErrDataUnavailable, "invalid position: %v", err)
	}
	if record == nil {
		return m.Position{}, errors.Wrap(ErrDataUnavailable, "position is null")
	}
	if record.Latitude == nil || record.Longitude == nil {
		return m.Position{}, errors.Wrap(ErrDataUnavailable, "position is missing latitude or longitude")
	}
	return m.NewPosition(*record.Latitude, *record.Longitude), nil
}

// ParseTargets reads a list of target velocities. An empty list is valid, a
// single malformed record makes the whole list unavailable.
func ParseTargets(data []byte) ([]SpeedTarget, error) {
	var records *[]*targetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(ErrDataUnavailable, "invalid target velocities: %v", err)
	}
	if records == nil {
		return nil, errors.Wrap(ErrDataUnavailable, "target velocities are null")
	}

	targets := make([]SpeedTarget, len(*records))
	for i, record := range *records {
		if record == nil || record.Latitude == nil || record.Longitude == nil || record.Velocity == nil {
			return nil, errors.Wrapf(ErrDataUnavailable, "target velocity %d is incomplete", i)
		}
		targets[i] = SpeedTarget{
			Pos:      m.NewPosition(*record.Latitude, *record.Longitude),
			Velocity: *record.Velocity,
		}
	}
	return targets, nil
}

// MarshalTargets is the inverse of ParseTargets.
func MarshalTargets(targets []SpeedTarget) ([]byte, error) {
	out := make([]TargetVelocity, len(targets))
	for i, t := range targets {
		out[i] = TargetVelocity{
			Latitude:  t.Pos.Lat(),
			Longitude: t.Pos.Lon(),
			Velocity:  t.Velocity,
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "could not marshal target velocities")
	}
	return data, nil
}

// ParamPositionProvider reads the last gps position param on every call.
type ParamPositionProvider struct {
	Path string
}

func NewParamPositionProvider() ParamPositionProvider {
	return ParamPositionProvider{Path: params.ParamPath(params.LAST_GPS_POSITION, true)}
}

func (p ParamPositionProvider) Position() (m.Position, bool) {
	data, err := params.GetParam(p.Path)
	if err != nil {
		utils.Logde(errors.Wrap(err, "could not read last gps position"))
		return m.Position{}, false
	}
	pos, err := ParsePosition(data)
	if err != nil {
		utils.Logde(errors.Wrap(err, "could not parse last gps position"))
		return m.Position{}, false
	}
	return pos, true
}

// ParamTargetProvider reads the map target velocities param on every call.
type ParamTargetProvider struct {
	Path string
}

func NewParamTargetProvider() ParamTargetProvider {
	return ParamTargetProvider{Path: params.ParamPath(params.MAP_TARGET_VELOCITIES, true)}
}

func (p ParamTargetProvider) Targets() ([]SpeedTarget, bool) {
	data, err := params.GetParam(p.Path)
	if err != nil {
		utils.Logde(errors.Wrap(err, "could not read map target velocities"))
		return nil, false
	}
	targets, err := ParseTargets(data)
	if err != nil {
		utils.Logde(errors.Wrap(err, "could not parse map target velocities"))
		return nil, false
	}
	return targets, true
}
