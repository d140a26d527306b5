package settings

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"pfeifer.dev/mtsc/params"
)

var (
	Settings = MtscSettings{}
)

type MtscSettings struct {
	// TargetJerk has no default and must be configured. It is signed: a
	// negative value ramps acceleration down toward TargetAccel.
	TargetJerk   float64 `json:"target_jerk"`   // m/s^3
	TargetAccel  float64 `json:"target_accel"`  // m/s^2
	TargetOffset float64 `json:"target_offset"` // s
	LogLevel     string  `json:"log_level"`
}

func (s *MtscSettings) Default() {
	s.TargetJerk = 0
	s.TargetAccel = -1.2
	s.TargetOffset = 1.0
	s.LogLevel = "error"
}

func (s *MtscSettings) Path() string {
	return params.ParamPath(params.MTSC_SETTINGS, false)
}

func (s *MtscSettings) Load() (success bool) {
	s.Default() // set defaults so settings not already in param are defaulted
	data, err := params.GetParam(s.Path())
	if err != nil {
		slog.Debug("could not read settings param", "error", err)
		s.setLogLevel()
		return false
	}

	err = s.Unmarshal(data)
	if err != nil {
		slog.Error("could not load settings", "error", err)
		s.setLogLevel()
		return false
	}

	s.setLogLevel()
	return true
}

func (s *MtscSettings) LoadWithRetries(tries int) bool {
	for range tries {
		if s.Load() {
			return true
		}
		time.Sleep(1 * time.Second)
	}
	return false
}

func (s *MtscSettings) Unmarshal(data []byte) error {
	err := json.Unmarshal(data, s)
	if err != nil {
		return errors.Wrap(err, "could not parse settings")
	}
	return nil
}

func (s *MtscSettings) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not marshal settings")
	}
	err = params.PutParam(s.Path(), data)
	if err != nil {
		return errors.Wrap(err, "could not save settings")
	}
	return nil
}

// SetLogLevel updates the stored level and applies it.
func (s *MtscSettings) SetLogLevel(level string) {
	s.LogLevel = level
	s.setLogLevel()
}

func (s *MtscSettings) setLogLevel() {
	slog.SetLogLoggerLevel(ParseLogLevel(s.LogLevel))
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
