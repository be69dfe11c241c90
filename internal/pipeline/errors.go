package pipeline

import "errors"

// ErrNoTable is returned by steps that need a loaded table when no load step
// ran before them.
var ErrNoTable = errors.New("no table loaded")
