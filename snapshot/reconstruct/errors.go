package reconstruct

import "github.com/pkg/errors"

// ErrMissingFile is returned when a decoded storage entry's canonical
// filename is absent from the unpacked append-vec map (spec §7
// "Missing-File").
var ErrMissingFile = errors.New("append-vec file not found in unpacked map")
