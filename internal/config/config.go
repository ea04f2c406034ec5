package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/san-kum/grfm/internal/body"
	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/trial"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMethod          = "newton-euler"
	DefaultModel           = "lowerlimb"
	DefaultPelvisBody      = "pelvis"
	DefaultRightBody       = "calcn_r"
	DefaultLeftBody        = "calcn_l"
	DefaultDirectionWindow = 10
)

type Config struct {
	Method          string         `yaml:"method"`
	PelvisBody      string         `yaml:"pelvis_body"`
	DirectionWindow int            `yaml:"direction_window"`
	Stations        StationsConfig `yaml:"stations"`
	Model           ModelConfig    `yaml:"model"`
	Synth           SynthConfig    `yaml:"synth"`
	Workers         int            `yaml:"workers"`
}

// Offset is a station position in its body frame, in metres.
type Offset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// StationsConfig places heel and toe on each foot. Offsets left out are
// derived from the model's anthropometry.
type StationsConfig struct {
	RightBody string  `yaml:"right_body"`
	LeftBody  string  `yaml:"left_body"`
	RightHeel *Offset `yaml:"right_heel,omitempty,flow"`
	RightToe  *Offset `yaml:"right_toe,omitempty,flow"`
	LeftHeel  *Offset `yaml:"left_heel,omitempty,flow"`
	LeftToe   *Offset `yaml:"left_toe,omitempty,flow"`
}

type ModelConfig struct {
	Preset string  `yaml:"preset"`
	Mass   float64 `yaml:"mass"`
	Height float64 `yaml:"height"`
}

type SynthConfig struct {
	Duration   float64 `yaml:"duration"`
	Rate       float64 `yaml:"rate"`
	StrideTime float64 `yaml:"stride_time"`
	DutyFactor float64 `yaml:"duty_factor"`
	Speed      float64 `yaml:"speed"`
	Heading    float64 `yaml:"heading"`
}

func DefaultConfig() *Config {
	s := trial.DefaultSynthOptions()
	return &Config{
		Method:          DefaultMethod,
		PelvisBody:      DefaultPelvisBody,
		DirectionWindow: DefaultDirectionWindow,
		Stations: StationsConfig{
			RightBody: DefaultRightBody,
			LeftBody:  DefaultLeftBody,
		},
		Model: ModelConfig{
			Preset: DefaultModel,
			Mass:   body.DefaultMass,
			Height: body.DefaultHeight,
		},
		Synth: SynthConfig{
			Duration:   s.Duration,
			Rate:       s.Rate,
			StrideTime: s.StrideTime,
			DutyFactor: s.DutyFactor,
			Speed:      s.Speed,
			Heading:    s.Heading,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read config file")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "could not parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "could not encode config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "could not write config file")
}

// Validate checks the fields the engine and model builders rely on.
func (c *Config) Validate() error {
	if _, err := grfm.ParseMethod(c.Method); err != nil {
		return err
	}
	switch {
	case c.PelvisBody == "":
		return errors.New("pelvis_body must be set")
	case c.Stations.RightBody == "" || c.Stations.LeftBody == "":
		return errors.New("stations need a right_body and a left_body")
	case c.DirectionWindow < 1:
		return errors.Errorf("direction_window must be at least 1, got %d", c.DirectionWindow)
	case !(c.Model.Mass > 0):
		return errors.Errorf("model mass must be positive, got %g", c.Model.Mass)
	case !(c.Model.Height > 0):
		return errors.Errorf("model height must be positive, got %g", c.Model.Height)
	case c.Workers < 0:
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	for _, name := range body.NewRegistry().ListModels() {
		if name == c.Model.Preset {
			return nil
		}
	}
	return errors.Errorf("unknown model preset %q", c.Model.Preset)
}

func (c *Config) Anthropometry() body.Anthropometry {
	return body.Anthropometry{Mass: c.Model.Mass, Height: c.Model.Height}
}

// BuildModel instantiates the configured model preset.
func (c *Config) BuildModel() (*body.Model, error) {
	return body.NewRegistry().GetModel(c.Model.Preset, c.Anthropometry())
}

// EngineParameters maps the config onto the estimator's parameters.
func (c *Config) EngineParameters() grfm.Parameters {
	heel, toe := body.FootStations(c.Anthropometry())
	return grfm.Parameters{
		Method:              c.Method,
		RightStationBody:    c.Stations.RightBody,
		LeftStationBody:     c.Stations.LeftBody,
		RightHeel:           c.Stations.RightHeel.or(heel),
		RightToe:            c.Stations.RightToe.or(toe),
		LeftHeel:            c.Stations.LeftHeel.or(heel),
		LeftToe:             c.Stations.LeftToe.or(toe),
		PelvisBody:          c.PelvisBody,
		DirectionWindowSize: c.DirectionWindow,
	}
}

// SynthOptions returns the walking-trial generator settings for the
// configured subject.
func (c *Config) SynthOptions() trial.SynthOptions {
	return trial.SynthOptions{
		Duration:   c.Synth.Duration,
		Rate:       c.Synth.Rate,
		StrideTime: c.Synth.StrideTime,
		DutyFactor: c.Synth.DutyFactor,
		Speed:      c.Synth.Speed,
		Heading:    c.Synth.Heading,
		Body:       c.Anthropometry(),
	}
}
