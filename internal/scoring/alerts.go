package scoring

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// AlertGenerator emits structured advisories from computed indices. Emission
// is threshold-triggered, not purely tier-triggered: the tier condition and a
// driver-value gate must both hold. A moderate flood tier with a dry 24h
// window produces no alert.
type AlertGenerator struct {
	cal *calibration.Calibration
}

// NewAlertGenerator creates an AlertGenerator over the given calibration.
func NewAlertGenerator(cal *calibration.Calibration) *AlertGenerator {
	return &AlertGenerator{cal: cal}
}

// Generate returns the alerts warranted by an index and the driving values it
// was computed from. area names the affected zone in the emitted records.
func (g *AlertGenerator) Generate(index domain.CompositeIndex, inputs InputSet, area string) []domain.Alert {
	switch index.Domain {
	case domain.DomainFloodRisk:
		return g.floodAlerts(index, inputs, area)
	case domain.DomainStormSurge:
		return g.surgeAlerts(index, inputs, area)
	case domain.DomainCycloneRisk:
		return g.cycloneAlerts(index, inputs, area)
	case domain.DomainReefBleaching:
		return g.reefAlerts(index, inputs, area)
	case domain.DomainOceanHealth:
		return g.oceanAlerts(index, inputs, area)
	}
	return nil
}

func (g *AlertGenerator) floodAlerts(index domain.CompositeIndex, inputs InputSet, area string) []domain.Alert {
	rain24, ok := value(inputs, domain.KindRainfall24h)
	if !ok || !index.RiskTier.AtLeast(domain.TierModerate) {
		return nil
	}
	if rain24 <= g.cal.Gates.FloodRain24hMin {
		return nil
	}
	msg := fmt.Sprintf("Flood risk is %s: %.0f mm of rain accumulated over the last 24 hours", index.RiskTier, rain24)
	if rain, ok := value(inputs, domain.KindRainfall); ok && rain > 0 {
		msg += fmt.Sprintf(", %.0f mm falling now", rain)
	}
	return []domain.Alert{newAlert(index, msg, area)}
}

func (g *AlertGenerator) surgeAlerts(index domain.CompositeIndex, inputs InputSet, area string) []domain.Alert {
	if !index.RiskTier.AtLeast(domain.TierModerate) {
		return nil
	}
	wave, _ := value(inputs, domain.KindWaveHeight)
	wind, _ := value(inputs, domain.KindWindSpeed)
	if wave < g.cal.Gates.SurgeWaveMin && wind < g.cal.Gates.SurgeWindMin {
		return nil
	}
	msg := fmt.Sprintf("Storm surge risk is %s: waves %.1f m, wind %.0f km/h", index.RiskTier, wave, wind)
	return []domain.Alert{newAlert(index, msg, area)}
}

func (g *AlertGenerator) cycloneAlerts(index domain.CompositeIndex, inputs InputSet, area string) []domain.Alert {
	if !index.RiskTier.AtLeast(domain.TierHigh) {
		return nil
	}
	wind, ok := value(inputs, domain.KindWindSpeed)
	if !ok || wind < g.cal.Gates.CycloneWindMin {
		return nil
	}
	msg := fmt.Sprintf("Cyclone risk is %s: sustained winds at %.0f km/h", index.RiskTier, wind)
	if pressure, ok := value(inputs, domain.KindPressure); ok {
		msg += fmt.Sprintf(", central pressure %.0f hPa", pressure)
	}
	return []domain.Alert{newAlert(index, msg, area)}
}

func (g *AlertGenerator) reefAlerts(index domain.CompositeIndex, inputs InputSet, area string) []domain.Alert {
	sst, okS := value(inputs, domain.KindTemperature)
	dhw, okD := value(inputs, domain.KindDegreeHeatingWeeks)
	if !okS || !okD {
		return nil
	}
	level := BleachingAlertLevel(sst, dhw)
	if level < g.cal.Gates.ReefAlertLevelMin {
		return nil
	}
	msg := fmt.Sprintf("Coral bleaching alert level %d: SST %.1f °C, %.1f degree heating weeks", level, sst, dhw)
	return []domain.Alert{newAlert(index, msg, area)}
}

func (g *AlertGenerator) oceanAlerts(index domain.CompositeIndex, inputs InputSet, area string) []domain.Alert {
	if !index.RiskTier.AtLeast(domain.TierHigh) {
		return nil
	}
	turb, okT := value(inputs, domain.KindTurbidity)
	oxy, okO := value(inputs, domain.KindDissolvedOxygen)
	degradedWater := (okT && turb > g.cal.Gates.OceanTurbidityMax) || (okO && oxy < g.cal.Gates.OceanOxygenMin)
	if !degradedWater {
		return nil
	}
	msg := fmt.Sprintf("Water quality advisory: ocean health index at %.0f", index.Overall)
	if okT && turb > g.cal.Gates.OceanTurbidityMax {
		msg += fmt.Sprintf(", turbidity %.1f", turb)
	}
	if okO && oxy < g.cal.Gates.OceanOxygenMin {
		msg += fmt.Sprintf(", dissolved oxygen %.1f mg/L", oxy)
	}
	return []domain.Alert{newAlert(index, msg, area)}
}

func newAlert(index domain.CompositeIndex, msg, area string) domain.Alert {
	return domain.Alert{
		ID:       uuid.NewString(),
		Level:    index.RiskTier,
		Message:  msg,
		Area:     area,
		Domain:   index.Domain,
		IssuedAt: domain.Now(),
	}
}

func value(inputs InputSet, kind domain.MeasurementKind) (float64, bool) {
	in, ok := inputs[kind]
	if !ok {
		return 0, false
	}
	return in.Measurement.Value, true
}
