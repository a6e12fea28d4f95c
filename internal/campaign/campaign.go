package campaign

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"flarepie/internal/burn"
	"flarepie/internal/config"
	"flarepie/internal/engine"
	"flarepie/internal/logging"
)

// Campaign is a named list of engine cases simulated one after another.
type Campaign struct {
	Name        string
	Description string
	Cases       []Case
}

// Case is one fully resolved engine definition.
type Case struct {
	Name   string
	Engine config.Engine
}

// Result is the outcome of a single case. Err is set when the case could not
// be simulated; the other fields are then zero.
type Result struct {
	Case    string
	Engine  config.Engine
	Summary burn.Summary
	Nozzle  *engine.NozzlePerformance
	Err     error
}

// file is the on-disk layout. Each case is merged over defaults before it is
// validated, so cases only need the fields they change.
type file struct {
	Name        string         `yaml:"name,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Defaults    map[string]any `yaml:"defaults,omitempty"`
	Cases       []caseSpec     `yaml:"cases"`
}

type caseSpec struct {
	Name   string         `yaml:"name"`
	File   string         `yaml:"file,omitempty"`
	Engine map[string]any `yaml:"engine,omitempty"`
}

// Load reads a YAML campaign. Case files are resolved relative to path.
func Load(path string) (*Campaign, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign: %w", err)
	}
	return parse(b, filepath.Dir(path))
}

func parse(data []byte, baseDir string) (*Campaign, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse campaign: %w", err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("campaign %q has no cases", f.Name)
	}

	names := make([]string, len(f.Cases))
	seen := make(map[string]bool, len(f.Cases))
	for i, cs := range f.Cases {
		name := cs.Name
		if name == "" {
			name = fmt.Sprintf("case-%d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate case %q", name)
		}
		seen[name] = true
		names[i] = name
	}

	c := &Campaign{Name: f.Name, Description: f.Description}
	for i, cs := range f.Cases {
		name := names[i]
		fields := merge(nil, f.Defaults)
		if cs.File != "" {
			fromFile, err := readFields(filepath.Join(baseDir, cs.File))
			if err != nil {
				return nil, fmt.Errorf("case %q: %w", name, err)
			}
			fields = merge(fields, fromFile)
		}
		fields = merge(fields, cs.Engine)
		if _, ok := fields["name"]; !ok {
			fields["name"] = name
		}

		raw, err := yaml.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", name, err)
		}
		eng, err := config.Parse(name, raw)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", name, err)
		}
		c.Cases = append(c.Cases, Case{Name: name, Engine: *eng})
	}
	return c, nil
}

func readFields(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// merge overlays src onto a copy of dst. Nested maps merge key by key.
func merge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := out[k].(map[string]any); ok {
				out[k] = merge(dm, sm)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Run simulates every case in order. A failing case is reported in its Result
// and does not stop the rest. Cancelling ctx stops before the next case.
func Run(ctx context.Context, c *Campaign) ([]Result, error) {
	log := logging.FromContext(ctx).With("campaign", c.Name)
	results := make([]Result, 0, len(c.Cases))
	for _, cs := range c.Cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := runCase(cs)
		if res.Err != nil {
			log.Warn("case failed", "case", cs.Name, "err", res.Err)
		} else {
			log.Info("case complete", "case", cs.Name, "burn_time", res.Summary.BurnTime, "isp", res.Summary.SpecificImpulse)
		}
		results = append(results, res)
	}
	return results, nil
}

func runCase(cs Case) Result {
	res := Result{Case: cs.Name, Engine: cs.Engine}
	sim, err := cs.Engine.NewSimulator()
	if err != nil {
		res.Err = err
		return res
	}
	_, sum, err := burn.Simulate(sim)
	if err != nil {
		res.Err = err
		return res
	}
	res.Summary = sum
	if in, ok := cs.Engine.NozzleInputs(sim.ExitVelocity()); ok {
		perf, err := engine.ThrustAndIsp(in)
		if err != nil {
			res.Err = fmt.Errorf("nozzle: %w", err)
			return res
		}
		res.Nozzle = &perf
	}
	return res
}
