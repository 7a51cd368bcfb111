// Package api implements the HTTP REST API and WebSocket server for Wayfinder Core.
//
// This package provides:
//   - Room lookup and search endpoints
//   - Route computation with accessibility analysis
//   - Gate status at a time of day
//   - Route history and analytics
//   - Admin endpoints for gate/path state and floor-plan reload (JWT, role=admin)
//   - WebSocket hub pushing wayfinding events, filtered per client
//
// # Architecture
//
// Handlers are thin adapters over wayfinding.Service. Every state change made
// through the service, whether from the API, the access-control bridge or a
// reload, arrives back as an event and is relayed to WebSocket clients whose
// subscription matches it by event type, room, gate or path.
//
// # Errors
//
// Routing failures map to neutral JSON bodies {"status","code","message"}.
// Messages never echo room, gate or path identifiers.
package api
