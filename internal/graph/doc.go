// Package graph holds the concrete node model of an unrolled workflow:
// data and task instances addressed by coordinates, the cycles grouping
// them, and the Array/Store containers that make every instance uniquely
// addressable by (name, coordinates).
package graph
