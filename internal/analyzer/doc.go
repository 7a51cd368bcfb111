// Package analyzer annotates a computed route for display.
//
// Analyze is a pure function over the route steps: it classifies the route
// by step count, collects warnings from instruction text and produces a
// coarse minute estimate. None of it feeds back into routing.
package analyzer
