// Package access decides whether gates and paths are usable at a given instant.
//
// Gate checks run in this order and the first failure wins:
//  1. IsOpen false: closed regardless of time.
//  2. TimeRestriction: open iff OpenHour <= local hour < CloseHour.
//  3. OpeningHours: the instant must fall in at least one window.
//  4. AccessRule: RestrictedAfter / RestrictedBefore thresholds, then
//     AllowedTimes windows.
//
// Paths apply the blocked flag and their own AccessRule the same way.
// All times are converted to the evaluator's location before comparison.
package access
