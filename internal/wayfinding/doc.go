// Package wayfinding owns the live routing state of a site.
//
// Service wraps a routing.Engine and an access.Evaluator. It answers route
// queries as NavigationRoute values (identifier, steps, totals, warnings and
// analysis), applies gate and path state changes by copying the current
// floor plan and swapping the engine graph, and notifies subscribers of
// every outcome.
//
// # Events
//
//   - route.computed after a successful FindRoute
//   - route.failed after a FindRoute that returned an error
//   - floorplan.updated after any gate, path or whole-plan change
//
// Listeners run synchronously on the goroutine that caused the event, in
// subscription order. A listener that needs to do slow work must hand it
// off itself.
//
// # Thread Safety
//
// All methods are safe for concurrent use. State changes are serialised so
// two concurrent toggles never lose each other's update.
package wayfinding
