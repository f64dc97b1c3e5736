package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

var (
	// ErrNoMatch is returned by Match when the rule does not account for the input.
	ErrNoMatch = errors.New("no match")
	// ErrMaxDepth is returned when rule nesting exceeds the configured depth.
	ErrMaxDepth = errors.New("maximum recursion depth exceeded")
	// ErrStepBudget is returned when matching exceeds the configured step budget.
	ErrStepBudget = errors.New("step budget exhausted")
)

// MatchError reports a failed strict match with the furthest position reached.
type MatchError struct {
	Rule string
	// Index is the token index the matcher could not get past.
	Index int
	Pos   token.Position
	// Near is the raw text of the token at Index, empty at end of input.
	Near string
}

func (e *MatchError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%s: no match at end of input (line %d, column %d)", e.Rule, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: no match at line %d, column %d near %q", e.Rule, e.Pos.Line, e.Pos.Column, e.Near)
}

func (e *MatchError) Unwrap() error {
	return ErrNoMatch
}

// LimitError reports that a parse was abandoned because an internal limit was hit.
type LimitError struct {
	Err   error // ErrMaxDepth or ErrStepBudget
	Limit int
	Rule  string // rule being matched when the limit was hit
	Index int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%v (limit %d) in %s at token %d", e.Err, e.Limit, e.Rule, e.Index)
}

func (e *LimitError) Unwrap() error {
	return e.Err
}
