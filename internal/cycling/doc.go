// Package cycling models the temporal axis of a workflow: cycle points,
// cycling policies that produce them, target-cycle specs that address other
// points from a reference date, and activation predicates that gate
// cross-references by date.
package cycling
