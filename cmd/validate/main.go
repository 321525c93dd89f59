// Command validate lints a calibration file before deployment. It loads the
// file over the compiled-in defaults exactly as the service would overlaying a
// YAML override, then checks every table the scoring engine consults: weight
// coverage, threshold ordering, confidence ranges, substitution defaults, alert
// gates, and regional segments.
//
// Usage:
//
//	go run ./cmd/validate -calibration config/calibration.yaml
//
// With no -calibration flag it lints the compiled-in defaults, which is useful
// as a regression check after editing them.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	calPath := flag.String("calibration", "", "path to calibration YAML; empty lints the compiled-in defaults")
	flag.Parse()

	if code := run(*calPath); code != 0 {
		os.Exit(code)
	}
}

func run(calPath string) int {
	fmt.Println("=== Calibration Validation ===")
	fmt.Println()

	cal := calibration.NewDefault()
	if calPath != "" {
		var err error
		cal, err = calibration.Load(calPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load calibration: %v\n", err)
			return 1
		}
		fmt.Printf("Loaded %s over compiled-in defaults\n", calPath)
	} else {
		fmt.Println("Linting compiled-in defaults")
	}

	phases := []*phase{
		validateWeights(cal),
		validateThresholds(cal),
		validateConfidence(cal),
		validateDefaults(cal),
		validateGates(cal),
		validateSegments(cal),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateWeights checks every domain has a weight table of known kinds with
// positive entries.
func validateWeights(cal *calibration.Calibration) *phase {
	p := &phase{name: "Weight tables"}
	for _, d := range domain.AllDomains {
		w, err := cal.WeightsFor(d)
		if err != nil {
			p.errorf("%s: %v", d, err)
			continue
		}
		total := 0.0
		for kind, weight := range w {
			if weight <= 0 {
				p.errorf("%s: kind %s has non-positive weight %v", d, kind, weight)
			}
			total += weight
		}
		// Weights are renormalized at compute time, but a table far from 1.0
		// is almost always an editing mistake.
		if math.Abs(total-1.0) > 0.01 {
			p.errorf("%s: weights sum to %.3f, expected 1.0", d, total)
		}
	}
	return p
}

// validateThresholds checks every domain's cut points are in (0,100) and
// strictly ordered severe > high > moderate.
func validateThresholds(cal *calibration.Calibration) *phase {
	p := &phase{name: "Tier thresholds"}
	for _, d := range domain.AllDomains {
		t, err := cal.ThresholdsFor(d)
		if err != nil {
			p.errorf("%s: %v", d, err)
			continue
		}
		for name, v := range map[string]float64{"severe": t.Severe, "high": t.High, "moderate": t.Moderate} {
			if v <= 0 || v >= 100 {
				p.errorf("%s: %s threshold %v outside (0, 100)", d, name, v)
			}
		}
		if !(t.Severe > t.High && t.High > t.Moderate) {
			p.errorf("%s: thresholds not strictly ordered: severe %v, high %v, moderate %v",
				d, t.Severe, t.High, t.Moderate)
		}
	}
	return p
}

func validateConfidence(cal *calibration.Calibration) *phase {
	p := &phase{name: "Confidence parameters"}
	for _, d := range domain.AllDomains {
		c := cal.ConfidenceFor(d)
		if c.Base <= 0 || c.Base > 1 {
			p.errorf("%s: base %v outside (0, 1]", d, c.Base)
		}
		if c.Penalty < 0 || c.Penalty > c.Base {
			p.errorf("%s: penalty %v outside [0, base]", d, c.Penalty)
		}
		if c.Floor < 0 || c.Floor > c.Base {
			p.errorf("%s: floor %v outside [0, base]", d, c.Floor)
		}
	}
	return p
}

// validateDefaults checks every weighted measured kind has a substitution
// default that would pass measurement validation.
func validateDefaults(cal *calibration.Calibration) *phase {
	p := &phase{name: "Substitution defaults"}
	for _, kind := range domain.MeasuredKinds {
		def, ok := cal.DefaultFor(kind)
		if !ok {
			p.errorf("kind %s has no substitution default", kind)
			continue
		}
		m := domain.Measurement{
			Kind:       kind,
			Value:      def.Value,
			Unit:       def.Unit,
			SourceID:   "default",
			ObservedAt: domain.Now(),
		}
		if !m.Valid() {
			p.errorf("kind %s: default %v %q fails measurement validation", kind, def.Value, def.Unit)
		}
	}
	return p
}

func validateGates(cal *calibration.Calibration) *phase {
	p := &phase{name: "Alert gates"}
	g := cal.Gates
	if g.FloodRain24hMin <= 0 {
		p.errorf("floodRain24hMin %v must be positive", g.FloodRain24hMin)
	}
	if g.SurgeWaveMin <= 0 {
		p.errorf("surgeWaveMin %v must be positive", g.SurgeWaveMin)
	}
	if g.SurgeWindMin <= 0 {
		p.errorf("surgeWindMin %v must be positive", g.SurgeWindMin)
	}
	if g.CycloneWindMin <= 0 {
		p.errorf("cycloneWindMin %v must be positive", g.CycloneWindMin)
	}
	if g.ReefAlertLevelMin < 1 || g.ReefAlertLevelMin > 5 {
		p.errorf("reefAlertLevelMin %d outside [1, 5]", g.ReefAlertLevelMin)
	}
	if g.OceanTurbidityMax <= 0 {
		p.errorf("oceanTurbidityMax %v must be positive", g.OceanTurbidityMax)
	}
	if g.OceanOxygenMin <= 0 {
		p.errorf("oceanOxygenMin %v must be positive", g.OceanOxygenMin)
	}
	return p
}

func validateSegments(cal *calibration.Calibration) *phase {
	p := &phase{name: "Regional segments"}
	seen := make(map[string]bool, len(cal.Segments))
	for _, s := range cal.Segments {
		if s.ID == "" {
			p.errorf("segment %q has empty ID", s.Name)
			continue
		}
		if seen[s.ID] {
			p.errorf("duplicate segment ID %q", s.ID)
		}
		seen[s.ID] = true
		if s.Multiplier < 0.5 || s.Multiplier > 1.5 {
			p.errorf("segment %s: multiplier %v outside [0.5, 1.5]", s.ID, s.Multiplier)
		}
		if s.Centroid.Lat() < -90 || s.Centroid.Lat() > 90 ||
			s.Centroid.Lng() < -180 || s.Centroid.Lng() > 180 {
			p.errorf("segment %s: centroid %v out of range", s.ID, s.Centroid)
		}
	}
	if cal.BaselineSST < 20 || cal.BaselineSST > 32 {
		p.errorf("baselineSST %v outside plausible tropical range [20, 32]", cal.BaselineSST)
	}
	return p
}
