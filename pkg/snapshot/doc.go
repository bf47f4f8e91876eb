// Package snapshot converts registries to and from plain documents that
// encoding/json and yaml.v3 can handle.
//
// A Document lists parameters in slot order with their type names and values.
// Empty slots are kept as entries marked empty so positions survive a round
// trip. Durations are written as strings ("1.5s").
package snapshot
