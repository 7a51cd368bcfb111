package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/nerrad567/wayfinder-core/internal/routing"
)

// Complexity is a coarse tier based on step count.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Step-count thresholds for the complexity tiers.
const (
	simpleMaxSteps   = 5
	moderateMaxSteps = 10
)

// Warning texts.
const (
	WarningManySteps  = "Route has many steps - consider alternative"
	WarningStairs     = "Route includes stairs"
	WarningRestricted = "Route may have time restrictions"
)

// Analysis is the display annotation for one route.
type Analysis struct {
	Complexity       Complexity `json:"complexity"`
	Warnings         []string   `json:"warnings"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Accessible       bool       `json:"accessible"`
}

// Analyze classifies steps.
//
// The minute estimate is steps*3 + distance/10, rounded up. It is a rough
// figure for the UI and deliberately independent of the engine's walking
// speed.
func Analyze(steps []routing.RouteStep) Analysis {
	a := Analysis{
		Complexity: ComplexitySimple,
		Warnings:   []string{},
		Accessible: true,
	}

	switch n := len(steps); {
	case n > moderateMaxSteps:
		a.Complexity = ComplexityComplex
		a.Warnings = append(a.Warnings, WarningManySteps)
	case n > simpleMaxSteps:
		a.Complexity = ComplexityModerate
	}

	if anyInstruction(steps, "stairs") {
		a.Warnings = append(a.Warnings, WarningStairs)
		a.Accessible = false
	}
	if anyInstruction(steps, "restricted") {
		a.Warnings = append(a.Warnings, WarningRestricted)
	}

	a.EstimatedMinutes = int(math.Ceil(float64(len(steps))*3 + routing.TotalDistance(steps)/10))
	return a
}

func anyInstruction(steps []routing.RouteStep, word string) bool {
	for _, s := range steps {
		if strings.Contains(strings.ToLower(s.Instruction), word) {
			return true
		}
	}
	return false
}

// FormatMinutes renders a duration in minutes as "< 1 min", "12 min" or "1h 5m".
func FormatMinutes(minutes float64) string {
	if minutes < 1 {
		return "< 1 min"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", int(math.Ceil(minutes)))
	}
	hours := int(minutes / 60)
	rest := int(math.Ceil(math.Mod(minutes, 60)))
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// FormatDistance renders a distance in metres, rounding to tens above 100
// and switching to kilometres above 1000.
func FormatDistance(distance float64) string {
	switch {
	case distance < 100:
		return fmt.Sprintf("%dm", int(math.Ceil(distance)))
	case distance < 1000:
		return fmt.Sprintf("%dm", int(math.Ceil(distance/10))*10)
	default:
		return fmt.Sprintf("%.1fkm", distance/1000)
	}
}
