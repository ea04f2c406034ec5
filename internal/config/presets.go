package config

import "sort"

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"lowerlimb": {
		"walk": DefaultConfig(),
		"slow": preset(func(c *Config) {
			c.Synth.StrideTime, c.Synth.Speed, c.Synth.DutyFactor = 1.3, 0.9, 0.65
		}),
		"fast": preset(func(c *Config) {
			c.Synth.StrideTime, c.Synth.Speed, c.Synth.DutyFactor = 0.95, 1.8, 0.57
		}),
		"turn": preset(func(c *Config) {
			c.Synth.Heading = 0.8
		}),
		"inverse-dynamics": preset(func(c *Config) {
			c.Method = "inverse-dynamics"
		}),
		"instant-heading": preset(func(c *Config) {
			c.DirectionWindow = 1
		}),
		"tall": preset(func(c *Config) {
			c.Model.Mass, c.Model.Height = 90, 1.92
		}),
		"light": preset(func(c *Config) {
			c.Model.Mass, c.Model.Height = 55, 1.60
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
