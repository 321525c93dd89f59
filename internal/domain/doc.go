// Package domain models coastal environmental measurements and the risk and
// health indices derived from them.
//
// # Domains
//
// A domain is one risk or health category computed by the engine:
//
//	oceanHealth   — water quality, pollution, and biodiversity proxies
//	floodRisk     — rainfall, 24h accumulation, and soil saturation
//	stormSurge    — wave height, wind speed, and swell
//	cycloneRisk   — storm wind speed, central pressure, and sea-surface temperature
//	reefBleaching — thermal stress on coral (SST anomaly and degree heating weeks)
//
// Each computation produces a CompositeIndex: an overall 0–100 score, the
// per-kind sub-scores it was combined from, a confidence value in [0,1], and
// an ordered risk tier.
//
// # Units
//
// Units are fixed per measurement kind and stable across the API surface:
//
//	temperature         °C          ("C")
//	ph                  pH units    ("pH")
//	salinity            ppt
//	dissolvedOxygen     mg/L
//	turbidity           unitless index ("index")
//	chlorophyll         mg/m³       ("mg/m3")
//	waterClarity        meters      ("m")
//	waveHeight          meters      ("m")
//	swellHeight         meters      ("m")
//	windSpeed           km/h
//	pressure            hPa
//	rainfall            mm (current hour)
//	rainfall24h         mm (trailing 24h accumulation)
//	soilMoisture        volumetric fraction 0–1
//	degreeHeatingWeeks  °C-weeks    ("C-weeks")
//
// # Risk tiers
//
// Tiers are totally ordered: low < moderate < high < severe. Classification is
// stateless; every computation is independent and a tier may move any number
// of steps between computations. There is no hysteresis.
//
// # Substitution
//
// When a provider fails, times out, or returns an out-of-bounds reading, the
// engine substitutes a documented default value for the missing kind and marks
// the resulting sub-score IsSubstituted. Substituted inputs reduce the
// confidence of the composite but never fail the computation: a dashboard
// always gets a number and a tier. The defaults live in one table in the
// calibration package; no call site carries its own fallback value.
package domain
