package campaign

import (
	"fmt"

	"flarepie/internal/config"
	"flarepie/internal/propellant"
)

// BuiltIn returns the predefined trade studies, all derived from the default
// engine.
func BuiltIn() map[string]Campaign {
	return map[string]Campaign{
		"propellants": propellantStudy(),
		"altitude":    altitudeStudy(),
	}
}

func propellantStudy() Campaign {
	c := Campaign{
		Name:        "propellants",
		Description: "Default engine burned with every propellant in the table.",
	}
	for _, e := range propellant.All() {
		eng := config.Default()
		eng.Name = "default-" + e.ID
		eng.Propellant = e.ID
		c.Cases = append(c.Cases, Case{Name: e.ID, Engine: eng})
	}
	return c
}

var studyAltitudes = []float64{0, 5_000, 10_000, 20_000, 40_000}

func altitudeStudy() Campaign {
	c := Campaign{
		Name:        "altitude",
		Description: "Default engine fired at increasing altitude.",
	}
	for _, alt := range studyAltitudes {
		eng := config.Default()
		h := alt
		eng.AltitudeM = &h
		name := fmt.Sprintf("%.0fm", alt)
		eng.Name = "default@" + name
		c.Cases = append(c.Cases, Case{Name: name, Engine: eng})
	}
	return c
}
