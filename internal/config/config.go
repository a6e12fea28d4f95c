package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"flarepie/internal/burn"
	"flarepie/internal/engine"
	"flarepie/internal/propellant"
)

// Nozzle describes the exit plane used for the static thrust evaluation.
type Nozzle struct {
	ExitPressurePa    float64  `yaml:"exit_pressure_pa"`
	AmbientPressurePa *float64 `yaml:"ambient_pressure_pa,omitempty"`
	ExitAreaM2        float64  `yaml:"exit_area_m2"`
}

// Engine is the root configuration for one burn.
type Engine struct {
	Name                  string   `yaml:"name,omitempty"`
	Description           string   `yaml:"description,omitempty"`
	Tags                  []string `yaml:"tags,omitempty"`
	Propellant            string   `yaml:"propellant"`
	ChamberPressurePa     float64  `yaml:"chamber_pressure_pa"`
	ChamberTemperatureK   float64  `yaml:"chamber_temperature_k"`
	AtmosphericPressurePa *float64 `yaml:"atmospheric_pressure_pa,omitempty"`
	AltitudeM             *float64 `yaml:"altitude_m,omitempty"`
	TotalMassKg           float64  `yaml:"total_mass_kg"`
	PropellantMassKg      float64  `yaml:"propellant_mass_kg"`
	MassFlowRateKgs       float64  `yaml:"mass_flow_rate_kgs"`
	TimestepS             float64  `yaml:"timestep_s"`
	Nozzle                *Nozzle  `yaml:"nozzle,omitempty"`
}

// Default returns the engine the original calculator was seeded with.
func Default() Engine {
	return Engine{
		Name:                "default",
		Propellant:          "RP1",
		ChamberPressurePa:   7_000_000,
		ChamberTemperatureK: 3500,
		TotalMassKg:         10_000,
		PropellantMassKg:    8_000,
		MassFlowRateKgs:     250,
		TimestepS:           0.1,
	}
}

// AmbientPressure returns the explicit atmospheric pressure if set, otherwise
// the barometric pressure at AltitudeM, otherwise sea level.
func (e Engine) AmbientPressure() float64 {
	switch {
	case e.AtmosphericPressurePa != nil:
		return *e.AtmosphericPressurePa
	case e.AltitudeM != nil:
		return engine.AtmosphericPressure(*e.AltitudeM)
	}
	return engine.SeaLevelPressure
}

// Conditions builds the combustion conditions for this engine.
func (e Engine) Conditions() engine.CombustionConditions {
	return engine.CombustionConditions{
		ChamberPressure:     e.ChamberPressurePa,
		ChamberTemperature:  e.ChamberTemperatureK,
		AtmosphericPressure: e.AmbientPressure(),
	}
}

// Entry resolves the propellant. Unknown identifiers are reported as
// engine.ErrInvalidPropellant rather than substituted.
func (e Engine) Entry() (propellant.Entry, error) {
	entry, ok := propellant.Lookup(e.Propellant)
	if !ok {
		return propellant.Entry{}, fmt.Errorf("%w: %q (known: %v)", engine.ErrInvalidPropellant, e.Propellant, propellant.IDs())
	}
	return entry, nil
}

// NewSimulator resolves the propellant and configures a burn simulator.
func (e Engine) NewSimulator() (*burn.Simulator, error) {
	entry, err := e.Entry()
	if err != nil {
		return nil, err
	}
	return burn.Configure(e.Conditions(), entry, e.TotalMassKg, e.PropellantMassKg, e.MassFlowRateKgs, e.TimestepS)
}

// NozzleInputs builds the static thrust inputs for the given exit velocity.
// It returns false when the engine has no nozzle section.
func (e Engine) NozzleInputs(exitVelocity float64) (engine.NozzleInputs, bool) {
	if e.Nozzle == nil {
		return engine.NozzleInputs{}, false
	}
	ambient := e.AmbientPressure()
	if e.Nozzle.AmbientPressurePa != nil {
		ambient = *e.Nozzle.AmbientPressurePa
	}
	return engine.NozzleInputs{
		MassFlowRate:    e.MassFlowRateKgs,
		ExitVelocity:    exitVelocity,
		ExitPressure:    e.Nozzle.ExitPressurePa,
		AmbientPressure: ambient,
		ExitArea:        e.Nozzle.ExitAreaM2,
	}, true
}

// Load validates the YAML file at configPath against the CUE schema and
// decodes it. An empty cueSchemaPath uses the embedded schema.
func Load(configPath, cueSchemaPath string) (*Engine, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Engine
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	slog.Debug("loaded engine configuration", "path", configPath, "engine", cfg.Name, "propellant", cfg.Propellant)

	return &cfg, nil
}

// Parse validates and decodes YAML held in memory against the embedded schema.
func Parse(name string, data []byte) (*Engine, error) {
	if err := validateBytes(name, data, engineSchema); err != nil {
		return nil, err
	}
	var cfg Engine
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg Engine) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
