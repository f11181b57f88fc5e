package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

const (
	DefaultName        = "DCS Radio Station"
	DefaultFrequency   = 251_000_000
	DefaultControlPort = 5002
)

// Position is a station's location. The zero value is the origin.
type Position struct {
	X        float64
	Y        float64
	Altitude float64
}

// StationConfig is the identity a station announces when it joins a session.
type StationConfig struct {
	Name      string
	Frequency uint64 // Hz
	Position  Position
	Port      uint16
}

// DefaultStationConfig returns a config for the named station on the default
// frequency and control port, positioned at the origin.
func DefaultStationConfig(name string) StationConfig {
	return StationConfig{
		Name:      name,
		Frequency: DefaultFrequency,
		Port:      DefaultControlPort,
	}
}

// StationEnv is the part of the station identity that is read from the environment.
type StationEnv struct {
	Name        string  `env:"RADIO_STATION_NAME, default=DCS Radio Station"`
	X           float64 `env:"RADIO_POSITION_X, default=0"`
	Y           float64 `env:"RADIO_POSITION_Y, default=0"`
	Altitude    float64 `env:"RADIO_POSITION_ALT, default=8000"`
	ControlPort uint16  `env:"RADIO_CONTROL_PORT, default=5002"`
}

func NewStationEnvFromEnv(ctx context.Context) (*StationEnv, error) {
	return NewStationEnv(ctx, envconfig.OsLookuper())
}

// NewStationEnv populates a StationEnv from lookuper.
func NewStationEnv(ctx context.Context, lookuper envconfig.Lookuper) (*StationEnv, error) {
	var cfg StationEnv
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (e *StationEnv) Position() Position {
	return Position{X: e.X, Y: e.Y, Altitude: e.Altitude}
}
