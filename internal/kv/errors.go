package kv

import "errors"

// ErrWriteFailed is returned by stores whose backing medium rejected a
// write. Callers treat it as a soft failure: in-memory state stays
// authoritative for the session.
var ErrWriteFailed = errors.New("kv: write failed")
