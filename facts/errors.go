package facts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDataset is returned when an operation needs at least one fact
	// and the store (or the dataset handed to it) has none.
	ErrEmptyDataset = errors.New("no historical facts available")

	// ErrInvalidArgument is returned when a caller-supplied argument fails
	// a range precondition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a well-formed category query matched no facts.
	// FactByID does not use it: a missing id is reported as a nil fact.
	ErrNotFound = errors.New("not found")
)

// InvalidArgumentError describes a rejected argument.
//
// It matches ErrInvalidArgument via errors.Is.
type InvalidArgumentError struct {
	Arg    string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%v: %s", e.Arg, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NotFoundError reports an empty result for a tag, period or year query.
// For period queries Choices holds the periods present in the store.
//
// It matches ErrNotFound via errors.Is.
type NotFoundError struct {
	Kind    string
	Query   string
	Choices []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	b.WriteString(" not found")
	if e.Query != "" {
		fmt.Fprintf(&b, ": %s", e.Query)
	}
	if len(e.Choices) > 0 {
		fmt.Fprintf(&b, " (valid %ss: %s)", e.Kind, strings.Join(e.Choices, ", "))
	}
	return b.String()
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
