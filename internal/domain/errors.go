// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable indicates an external collaborator could not be reached.
var ErrUnavailable = errors.New("unavailable")

// ErrConfiguration indicates invalid setup detected before a run starts.
// Configuration errors are fatal and never retried.
var ErrConfiguration = errors.New("configuration error")
