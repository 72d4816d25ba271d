package types

import "errors"

// Text codes attached to go-errors values so transports can branch on the
// failure without string matching.
const (
	TextCodeEventRequired      = "ACTIVITY_EVENT_REQUIRED"
	TextCodeTrackerNotPrepared = "ACTIVITY_TRACKER_NOT_PREPARED"
	TextCodeStorageFailure     = "ACTIVITY_STORAGE_FAILURE"
	TextCodeTruncateForbidden  = "ACTIVITY_TRUNCATE_FORBIDDEN"
)

var (
	// ErrMissingSink occurs when a logger or command lacks a storage backend.
	ErrMissingSink = errors.New("go-activity: missing activity sink")
	// ErrMissingStore occurs when a read-side query lacks a store.
	ErrMissingStore = errors.New("go-activity: missing activity store")
	// ErrMissingDB occurs when a store is constructed without a database.
	ErrMissingDB = errors.New("go-activity: db or repository required")
	// ErrUnknownConnection occurs when a logger targets a connection name
	// that was never registered.
	ErrUnknownConnection = errors.New("go-activity: unknown connection name")
)
