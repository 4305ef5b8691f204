package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into coded domain errors:
//   - ErrNotFound: record does not exist in the collection
//
// For bad input use pkg/domain-errors directly.
var (
	ErrNotFound = errors.New("not found")
)
