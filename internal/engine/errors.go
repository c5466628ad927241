package engine

import (
	"errors"
	"fmt"
)

// UnknownNodeError is returned when an intervention references a node that
// does not exist in the graph. The whole simulation call is rejected rather
// than partially applying interventions.
type UnknownNodeError struct {
	NodeID string
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("intervention node %q not found in graph", e.NodeID)
}

// IsUnknownNode returns true if the error is an UnknownNodeError.
// Uses errors.As to handle wrapped errors.
func IsUnknownNode(err error) bool {
	var ue *UnknownNodeError
	return errors.As(err, &ue)
}

// ValueTypeError is returned when an intervention's forced value does not
// fit the target node: a label forced onto a numeric node, a number forced
// onto a label node, or a categorical label outside the node's declared
// possible values.
type ValueTypeError struct {
	NodeID string
	Reason string
}

// Error implements the error interface.
func (e *ValueTypeError) Error() string {
	return fmt.Sprintf("intervention on node %q: %s", e.NodeID, e.Reason)
}

// IsValueType returns true if the error is a ValueTypeError.
// Uses errors.As to handle wrapped errors.
func IsValueType(err error) bool {
	var ve *ValueTypeError
	return errors.As(err, &ve)
}
