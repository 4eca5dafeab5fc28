package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The store layer returns these
// (optionally wrapped) so services and handlers can translate them into
// response codes without inspecting error strings.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: key does not exist in the store
// - ErrUnavailable: store unreachable after the retry budget is exhausted
//
// Validation failures are reported by the models package directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
