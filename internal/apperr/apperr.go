// Package apperr defines the error kinds surfaced by the risk engine and its
// collaborators. Every error carries its kind and, when known, the offending
// identifier so callers can choose between retrying and user messaging.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInput"
	KindNotFound            Kind = "NotFound"
	KindInvalidState        Kind = "InvalidState"
	KindCollaboratorFailure Kind = "CollaboratorFailure"
	KindInternal            Kind = "Internal"
)

// Collaborator names used with CollaboratorFailure
const (
	ReadingStore      = "reading_store"
	LocationDirectory = "location_directory"
	NarrativeService  = "narrative"
)

// Error is a classified error
type Error struct {
	Kind Kind
	Op   string // operation or collaborator that failed
	ID   string // offending identifier, if any
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.ID != "" && e.Op != "":
		return fmt.Sprintf("%s: %s [%s]: %s", e.Kind, e.Op, e.ID, msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
	case e.ID != "":
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.ID, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput reports a missing or malformed request field
func InvalidInput(field, msg string) *Error {
	return &Error{Kind: KindInvalidInput, ID: field, Msg: msg}
}

// NotFound reports an unknown location or gate, or a gate without readings
func NotFound(what, id string) *Error {
	return &Error{Kind: KindNotFound, Op: what, ID: id, Msg: what + " not found"}
}

// InvalidState reports a computation that is undefined for the current data
func InvalidState(op, msg string) *Error {
	return &Error{Kind: KindInvalidState, Op: op, Msg: msg}
}

// CollaboratorFailure wraps a failure of the reading store, directory or narrative service
func CollaboratorFailure(collaborator string, err error) *Error {
	return &Error{Kind: KindCollaboratorFailure, Op: collaborator, Err: err}
}

// KindOf returns the kind of the first classified error in the chain, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns the first classified error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FromCollaborator classifies err as a failure of collaborator unless it already carries a kind
func FromCollaborator(collaborator string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return CollaboratorFailure(collaborator, err)
}
