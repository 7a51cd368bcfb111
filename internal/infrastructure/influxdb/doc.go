// Package influxdb records route query telemetry in InfluxDB.
//
// It wraps influxdb-client-go v2 with a non-blocking, batched write API.
// Each route query becomes one point in the route_queries measurement:
//
//	route_queries,outcome=ok,from=room-1,to=library distance=7,steps=3i,duration_ms=0.12
//
// Gate and path changes are written to floorplan_changes so dashboards can
// correlate failed searches with closures.
//
// Batch size and flush interval come from the influxdb config section.
// Write errors are delivered asynchronously to the SetOnError callback.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package influxdb
