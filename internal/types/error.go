package types

import (
	"errors"
	"fmt"

	"github.com/zeebo/errs"
)

var (
	// ErrTransient wraps low-level storage engine failures.
	ErrTransient = errs.Class("transient store")
	// ErrDatabase wraps connection and migration failures.
	ErrDatabase = errs.Class("database")
	// ErrConfig wraps configuration failures.
	ErrConfig = errs.Class("config")
)

// Entity kinds named by NotFoundError.
const (
	KindProject   = "project"
	KindOrganism  = "organism"
	KindReference = "reference"
	KindProtein   = "protein"
	KindPlate     = "plate"
	KindWell      = "well"
	KindTerm      = "term"
	KindReaction  = "reaction"
	KindCompound  = "compound"
	KindPathway   = "pathway"
)

// CustomError is the error body returned by the query gateway
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NotFoundError reports a referenced entity that is not present yet.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.Kind == KindReference {
		return fmt.Sprintf("missing reference: organism (%s) is not present yet", e.ID)
	}
	return fmt.Sprintf("this %s (%s) is not present yet", e.Kind, e.ID)
}

// DuplicateSingletonError reports a second project creation attempt.
type DuplicateSingletonError struct {
	Name string
}

func (e *DuplicateSingletonError) Error() string {
	return fmt.Sprintf("only one project at a time: project %q already defined", e.Name)
}

// PreconditionError reports a batch that cannot be written in its current state.
type PreconditionError struct {
	Reason string
	Key    string
}

func (e *PreconditionError) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (%s)", e.Reason, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsPrecondition reports whether err is, or wraps, a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// IsDuplicateSingleton reports whether err is, or wraps, a DuplicateSingletonError.
func IsDuplicateSingleton(err error) bool {
	var de *DuplicateSingletonError
	return errors.As(err, &de)
}

// IsTransient reports whether err came from the storage engine.
func IsTransient(err error) bool {
	return ErrTransient.Has(err)
}
