package impact

import (
	"fmt"
	"math"

	"github.com/speakeasy-api/fieldmap/internal/index"
)

// RiskLevel represents how risky changing a field is.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskScore is the weighted assessment of changing a field.
type RiskScore struct {
	Level       RiskLevel    `json:"level" yaml:"level"`
	Score       float64      `json:"score" yaml:"score"`
	Factors     []RiskFactor `json:"factors" yaml:"factors"`
	Explanation string       `json:"explanation" yaml:"explanation"`
}

// RiskFactor is one weighted contribution to a RiskScore.
type RiskFactor struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
	// Value is normalized to [0, 1].
	Value float64 `json:"value" yaml:"value"`
}

// ComputeRisk scores a field from:
//   - how many endpoints carry it
//   - how many schemas declare it
//   - the share of those endpoints that mutate state
//   - whether any schema or endpoint requires it
func ComputeRisk(detail *index.FieldDetail) *RiskScore {
	mutating := 0
	for _, n := range detail.Mutating {
		mutating += n
	}

	factors := []RiskFactor{
		{Name: "endpoint-spread", Weight: 0.35, Value: endpointSpreadRisk(len(detail.Endpoints))},
		{Name: "schema-spread", Weight: 0.25, Value: schemaSpreadRisk(len(detail.Schemas))},
		{Name: "mutating-share", Weight: 0.3, Value: mutatingShareRisk(mutating, len(detail.Endpoints))},
		{Name: "required", Weight: 0.1, Value: requiredRisk(len(detail.RequiredIn))},
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weight * f.Value
	}

	level := riskLevel(total)

	return &RiskScore{
		Level:       level,
		Score:       total,
		Factors:     factors,
		Explanation: explainRisk(level, len(detail.Endpoints), mutating, len(detail.Schemas)),
	}
}

// endpointSpreadRisk grows logarithmically: 0 endpoints = 0.0, 1 = 0.23, 5 = 0.59, 20+ = 1.0.
func endpointSpreadRisk(n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Min(math.Log10(float64(n)+1)/math.Log10(21), 1)
}

// schemaSpreadRisk: 0 schemas = 0.0, 1 = 0.2, 10+ = 1.0.
func schemaSpreadRisk(n int) float64 {
	switch {
	case n == 0:
		return 0
	case n == 1:
		return 0.2
	}
	return math.Min(math.Log10(float64(n)), 1)
}

func mutatingShareRisk(mutating, endpoints int) float64 {
	if endpoints == 0 {
		return 0
	}
	return math.Min(float64(mutating)/float64(endpoints), 1)
}

func requiredRisk(requiredIn int) float64 {
	if requiredIn > 0 {
		return 0.9
	}
	return 0.3
}

func riskLevel(score float64) RiskLevel {
	if score >= 0.7 {
		return RiskHigh
	}
	if score >= 0.4 {
		return RiskMedium
	}
	return RiskLow
}

func explainRisk(level RiskLevel, endpoints, mutating, schemas int) string {
	switch level {
	case RiskHigh:
		return fmt.Sprintf("High risk: carried by %d endpoint(s), %d mutating, across %d schema(s). Changes may break clients.", endpoints, mutating, schemas)
	case RiskMedium:
		return fmt.Sprintf("Medium risk: carried by %d endpoint(s), %d mutating, across %d schema(s). Changes require careful review.", endpoints, mutating, schemas)
	default:
		return fmt.Sprintf("Low risk: carried by %d endpoint(s), %d mutating, across %d schema(s). Changes have limited impact.", endpoints, mutating, schemas)
	}
}
