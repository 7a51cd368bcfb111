// Package routing finds the shortest walk between two rooms of a floor plan.
//
// BuildGraph turns a floor plan into an undirected adjacency map keyed by
// gate (and special-area) ID. Blocked paths contribute no edge; a later
// declaration of the same gate pair overwrites an earlier one.
//
// ShortestPath is a plain O(V²) Dijkstra: each round scans every unvisited
// node for the smallest tentative distance, breaking ties on the lowest ID
// so repeated runs give identical routes. The main loop and the
// predecessor walk are both bounded by the node count.
//
// Engine holds an immutable snapshot of a floor plan and its graph behind
// an atomic pointer. UpdateGraph swaps in a freshly built snapshot, so a
// search in flight always sees one consistent plan.
//
// By default only the static blocked flag filters edges. WithAccessRules
// makes a query honour gate and path time rules and gate directions at the
// query instant.
package routing
