// Package salary combines skill match, experience, location and role base
// pay into a single estimate with a confidence band.
//
// The blend is multiplicative: predicted = base * experience * skill-match *
// location. Every factor multiplier is >= 1 and monotonic in its input, so
// adding skills or experience can never lower the estimate.
package salary

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
)

// Config carries the heuristic tables. Missing values are filled with
// defaults by New; callers normally load overrides from configuration.
type Config struct {
	// LocationMultipliers maps normalized location names to cost-of-labor
	// multipliers. Unknown or remote locations use 1.0.
	LocationMultipliers map[string]float64 `json:"location_multipliers"`
	// DefaultBaseSalary is used when the role has no observed salaries.
	DefaultBaseSalary float64 `json:"default_base_salary"`
	// ExperienceCap bounds the experience multiplier.
	ExperienceCap float64 `json:"experience_cap"`
}

// Default returns the built-in heuristic tables.
func Default() Config {
	return Config{
		LocationMultipliers: map[string]float64{
			"san francisco": 1.35,
			"new york":      1.30,
			"seattle":       1.25,
			"austin":        1.10,
			"chicago":       1.08,
			"denver":        1.05,
			"remote":        1.00,
		},
		DefaultBaseSalary: 100000,
		ExperienceCap:     2.0,
	}
}

// Estimate is the aggregated salary output.
type Estimate struct {
	Predicted        float64
	Min              float64
	Max              float64
	Confidence       float64            // clamped to [0.4, 0.95]
	MarketPercentile float64            // within the role's observed salaries, 50 when unknown
	Factors          map[string]float64 // factor name -> percentage, summing to 100
}

// Aggregator computes salary estimates. Safe for concurrent use.
type Aggregator struct {
	cfg Config
}

// New creates an aggregator, filling missing config values with defaults.
func New(cfg Config) *Aggregator {
	def := Default()
	if cfg.LocationMultipliers == nil {
		cfg.LocationMultipliers = def.LocationMultipliers
	}
	if cfg.DefaultBaseSalary <= 0 {
		cfg.DefaultBaseSalary = def.DefaultBaseSalary
	}
	if cfg.ExperienceCap <= 1 {
		cfg.ExperienceCap = def.ExperienceCap
	}
	return &Aggregator{cfg: cfg}
}

// Estimate produces the salary estimate for a role and candidate.
// role may be nil when the corpus knows nothing about the requested role;
// the estimate then degrades to the default base with low confidence.
func (a *Aggregator) Estimate(role *corpus.RoleProfile, matchScore, experienceYears float64, location string) Estimate {
	base := a.cfg.DefaultBaseSalary
	sampleCount := 0
	if role != nil {
		sampleCount = role.SampleCount
		if role.BaseSalary > 0 {
			base = role.BaseSalary
		}
	}

	expMult := a.experienceMultiplier(experienceYears)
	skillMult := 1 + 0.25*clamp01(matchScore)
	locMult := a.locationMultiplier(location)

	predicted := round2(base * expMult * skillMult * locMult)

	conf := a.confidence(sampleCount, matchScore)
	spread := 0.05 + 0.30*(1-conf)

	percentile := 50.0
	if role != nil {
		if p, ok := role.Percentile(predicted); ok {
			percentile = round1(p)
		}
	}

	return Estimate{
		Predicted:        predicted,
		Min:              round2(predicted * (1 - spread)),
		Max:              round2(predicted * (1 + spread)),
		Confidence:       conf,
		MarketPercentile: percentile,
		Factors:          factorShares(expMult, skillMult, locMult),
	}
}

// experienceMultiplier grows logarithmically with years: fast early gains,
// diminishing returns later, capped by config.
func (a *Aggregator) experienceMultiplier(years float64) float64 {
	if years <= 0 {
		return 1.0
	}
	m := 1 + 0.45*math.Log1p(years)/math.Log1p(15)
	return math.Min(m, a.cfg.ExperienceCap)
}

// locationMultiplier looks the location up in the config table; an exact
// normalized match wins, then a substring match ("New York, NY" hits
// "new york"). Unknown locations default to 1.0.
func (a *Aggregator) locationMultiplier(location string) float64 {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return 1.0
	}
	if m, ok := a.cfg.LocationMultipliers[loc]; ok {
		return m
	}
	// Deterministic iteration for overlapping substring matches.
	keys := make([]string, 0, len(a.cfg.LocationMultipliers))
	for k := range a.cfg.LocationMultipliers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(loc, k) {
			return a.cfg.LocationMultipliers[k]
		}
	}
	return 1.0
}

// confidence starts from the role's sample size and drops as the candidate
// profile sits further from the role's requirements. Clamped to [0.4, 0.95]
// to avoid both false certainty and false despair.
func (a *Aggregator) confidence(sampleCount int, matchScore float64) float64 {
	var c float64
	switch {
	case sampleCount > 100:
		c = 0.95
	case sampleCount > 50:
		c = 0.85
	case sampleCount > 20:
		c = 0.75
	default:
		c = 0.65
	}
	c -= 0.15 * (1 - clamp01(matchScore))
	if c < 0.4 {
		c = 0.4
	}
	if c > 0.95 {
		c = 0.95
	}
	return c
}

// factorShares expresses each factor's contribution as a percentage.
// The role base anchors the blend; the other parts are the multiplier
// excesses over 1. Shares always sum to exactly 100.
func factorShares(expMult, skillMult, locMult float64) map[string]float64 {
	parts := map[string]float64{
		"role_base":   1.0,
		"experience":  expMult - 1,
		"skill_match": skillMult - 1,
		"location":    math.Abs(locMult - 1),
	}
	total := 0.0
	for _, v := range parts {
		total += v
	}
	out := make(map[string]float64, len(parts))
	acc := 0.0
	// The anchor absorbs the rounding residual.
	keys := []string{"experience", "location", "skill_match", "role_base"}
	for i, k := range keys {
		if i == len(keys)-1 {
			out[k] = round1(100 - acc)
			break
		}
		share := round1(parts[k] / total * 100)
		out[k] = share
		acc += share
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
