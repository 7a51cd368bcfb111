// Package access bridges the building access-control system to the
// wayfinding service over MQTT.
//
// Inbound, the bridge subscribes to
//
//	wayfinder/command/gate/{id}   {"is_open": false}
//	wayfinder/command/path/{id}   {"is_blocked": true, "reason": "cleaning"}
//
// and applies each command to the service, which rebuilds the routing
// graph. Outbound, it publishes retained gate and path state whenever the
// floor plan changes, and forwards route events to wayfinder/event/{type}.
//
// Outbound messages go through a buffered queue drained by one goroutine,
// so service listeners never wait on the broker.
package access
