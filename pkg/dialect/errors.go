package dialect

import (
	"errors"
	"fmt"
)

// Configuration errors. These signal a defect in a dialect definition or a
// bad name supplied by the caller, never malformed SQL.
var (
	ErrUnknownDialect    = errors.New("unknown dialect")
	ErrUnknownRule       = errors.New("unknown rule")
	ErrRuleExists        = errors.New("rule already exists")
	ErrRuleMissing       = errors.New("rule does not exist")
	ErrUnresolvedRef     = errors.New("unresolved rule reference")
	ErrInheritanceCycle  = errors.New("dialect inheritance cycle")
	ErrInvalidGrammar    = errors.New("invalid grammar")
	ErrDialectRequired   = errors.New("dialect is required")
	ErrMissingEntryPoint = errors.New("dialect has no statement rule")
)

// ConfigError describes a dialect configuration failure.
type ConfigError struct {
	Dialect string
	Rule    string // empty when the failure is not tied to one rule
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("dialect %q: %v", e.Dialect, e.Err)
	}
	return fmt.Sprintf("dialect %q: rule %q: %v", e.Dialect, e.Rule, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
