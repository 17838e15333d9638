package secondary

import "errors"

// Sentinel errors shared by all repository implementations. Services and
// handlers branch on these; anything else is a storage fault.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance is returned by Remove when the entry holds
	// fewer points than the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTemplateExists is returned by CreateTemplate on a name collision
	// within the workspace.
	ErrTemplateExists = errors.New("template already exists")

	// ErrNoItems is returned by CreateInstance for a template with no items.
	ErrNoItems = errors.New("template has no items")
)
