// Package sensor owns the input side of the coverage engine.
//
// Responsibilities: decoding sensor report lines into immutable Sensor
// records and exposing them as a read-only Set.
// Key types: Position, Sensor, Set, ParseError.
//
// A Sensor's Radius is the Manhattan distance to its closest beacon. It is
// computed once by NewSensor and never recomputed.
package sensor
