// Package common holds error sentinels and a prefixing helper shared
// across the index and store packages.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrHashNotFound is returned by Get when no waste is stored under the
	// requested hash.
	ErrHashNotFound = errors.New("hash not found")

	// ErrClosed names the closed-store condition. No function in this
	// module returns it: an operation on a closed Database fails with the
	// underlying file error instead.
	ErrClosed = errors.New("storage engine closed")

	// ErrInvalidHash is returned when a caller-supplied string is not a
	// well-formed 64-character hex hash.
	ErrInvalidHash = errors.New("not a valid hash")

	// ErrInvalidHead is returned when the index file's head page fails its
	// magic/version check on open.
	ErrInvalidHead = errors.New("the head node is not valid")

	// ErrNodeFull is a programmer-precondition violation: a mutator that
	// requires spare capacity was called on a full node.
	ErrNodeFull = errors.New("node is full")

	// ErrNodeEmpty is a programmer-precondition violation: split was called
	// on a node with nothing to give away.
	ErrNodeEmpty = errors.New("node is empty")

	// ErrWrongNodeType is a programmer-precondition violation: a page was
	// interpreted as the wrong node kind during descent.
	ErrWrongNodeType = errors.New("page holds the wrong node type")
)

// Wrap prefixes err with a short description of the failing operation,
// mirroring the propagation policy every fallible operation in this module
// follows: wrap lower-level errors with the action that failed, nothing
// retried in the core.
func Wrap(prefix string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
