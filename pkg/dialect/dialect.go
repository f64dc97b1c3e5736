// Package dialect provides SQL dialect definitions and their resolved rule tables.
//
// A dialect is declared with a Builder as a name, an optional parent and an
// ordered list of patches (insert, replace, remove, extend, append) over the
// parent's rules.
// Definitions are registered from pkg/dialects/*/ packages and resolved once,
// on first use, into an immutable *Dialect that is safe to share between
// goroutines without locking.
package dialect

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/grammar"
)

// Op is a patch operation over an inherited rule table.
type Op int

const (
	// OpInsert adds a rule that must not exist yet.
	OpInsert Op = iota
	// OpReplace swaps the grammar of an existing rule.
	OpReplace
	// OpRemove deletes an existing rule.
	OpRemove
	// OpExtend adds alternatives to an existing rule.
	OpExtend
	// OpAppend adds trailing elements to an existing rule.
	OpAppend
)

// String returns the string representation of Op.
func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpReplace:
		return "replace"
	case OpRemove:
		return "remove"
	case OpExtend:
		return "extend"
	case OpAppend:
		return "append"
	default:
		return "unknown"
	}
}

// Patch is one rule-table operation of a dialect definition.
type Patch struct {
	Op      Op
	Rule    string
	Grammar grammar.Grammar // nil for OpRemove
}

// RuleStatus records how a resolved dialect came to hold a rule.
type RuleStatus int

const (
	// Inherited rules come unchanged from the parent.
	Inherited RuleStatus = iota
	// Inserted rules were added by the dialect itself.
	Inserted
	// Replaced rules override a parent rule.
	Replaced
)

// String returns the string representation of RuleStatus.
func (s RuleStatus) String() string {
	switch s {
	case Inherited:
		return "inherited"
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	default:
		return "unknown"
	}
}

type wordPatch struct {
	word    string
	reserve bool
}

// Definition is the registration payload for one dialect. It is produced by
// Builder.Build and consumed by Register and Resolve.
type Definition struct {
	name       string
	parent     string
	patches    []Patch
	words      []wordPatch
	symbols    []string
	root       string
	statement  string
	terminator grammar.Grammar
	sync       SyncPolicy
}

// Name returns the dialect name.
func (d *Definition) Name() string { return d.name }

// ParentName returns the parent dialect name, or "" for a base dialect.
func (d *Definition) ParentName() string { return d.parent }

// Patches returns the rule patches in declaration order.
func (d *Definition) Patches() []Patch {
	out := make([]Patch, len(d.patches))
	copy(out, d.patches)
	return out
}

// Builder provides a fluent API for declaring dialects.
type Builder struct {
	def *Definition
}

// NewDialect starts a new dialect definition.
func NewDialect(name string) *Builder {
	return &Builder{def: &Definition{name: name}}
}

// Parent sets the dialect this one inherits from.
func (b *Builder) Parent(name string) *Builder {
	b.def.parent = name
	return b
}

// Insert adds a new rule. Resolution fails if the parent already has it.
func (b *Builder) Insert(name string, g grammar.Grammar) *Builder {
	b.def.patches = append(b.def.patches, Patch{Op: OpInsert, Rule: name, Grammar: g})
	return b
}

// Replace overrides an inherited rule. Resolution fails if it does not exist.
func (b *Builder) Replace(name string, g grammar.Grammar) *Builder {
	b.def.patches = append(b.def.patches, Patch{Op: OpReplace, Rule: name, Grammar: g})
	return b
}

// Remove deletes an inherited rule. Resolution fails if it does not exist
// or if a remaining rule still references it.
func (b *Builder) Remove(name string) *Builder {
	b.def.patches = append(b.def.patches, Patch{Op: OpRemove, Rule: name})
	return b
}

// Extend adds options to an inherited rule. A one-of rule gains the options
// after its own; any other rule becomes a one-of of itself and the options.
// The patch is evaluated against the parent's grammar at resolution time.
func (b *Builder) Extend(name string, options ...grammar.Grammar) *Builder {
	b.def.patches = append(b.def.patches, Patch{Op: OpExtend, Rule: name, Grammar: grammar.OneOf{Options: options}})
	return b
}

// Append adds elements to the end of an inherited rule. A sequence rule gains
// the items after its own; any other rule becomes a sequence of itself and
// the items.
func (b *Builder) Append(name string, items ...grammar.Grammar) *Builder {
	b.def.patches = append(b.def.patches, Patch{Op: OpAppend, Rule: name, Grammar: grammar.Sequence{Items: items}})
	return b
}

// Reserve marks words that cannot be used as bare identifiers.
func (b *Builder) Reserve(words ...string) *Builder {
	for _, w := range words {
		b.def.words = append(b.def.words, wordPatch{word: strings.ToUpper(w), reserve: true})
	}
	return b
}

// Unreserve releases words reserved by an ancestor.
func (b *Builder) Unreserve(words ...string) *Builder {
	for _, w := range words {
		b.def.words = append(b.def.words, wordPatch{word: strings.ToUpper(w)})
	}
	return b
}

// Symbols registers multi-character operators for the lexer (e.g. "::", "->>").
func (b *Builder) Symbols(syms ...string) *Builder {
	b.def.symbols = append(b.def.symbols, syms...)
	return b
}

// Root names the node that wraps a parsed file.
func (b *Builder) Root(rule string) *Builder {
	b.def.root = rule
	return b
}

// Statement sets the rule matched for each top-level statement.
func (b *Builder) Statement(rule string) *Builder {
	b.def.statement = rule
	return b
}

// Terminator sets the grammar separating top-level statements.
func (b *Builder) Terminator(g grammar.Grammar) *Builder {
	b.def.terminator = g
	return b
}

// Sync sets the policy used to resume parsing after unparsable input.
func (b *Builder) Sync(policy SyncPolicy) *Builder {
	b.def.sync = policy
	return b
}

// Build returns the finished definition.
func (b *Builder) Build() *Definition {
	return b.def
}

// Dialect is a resolved, immutable dialect: a flat table from rule name to
// grammar plus the lexical and parse settings inherited along the chain.
type Dialect struct {
	name       string
	parent     string
	rules      map[string]grammar.Grammar
	status     map[string]RuleStatus
	reserved   map[string]struct{}
	symbols    []string
	root       string
	statement  string
	terminator grammar.Grammar
	sync       SyncPolicy
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// Parent returns the parent dialect name, or "" for a base dialect.
func (d *Dialect) Parent() string { return d.parent }

// Rule returns the grammar registered under name.
func (d *Dialect) Rule(name string) (grammar.Grammar, bool) {
	g, ok := d.rules[name]
	return g, ok
}

// HasRule reports whether the dialect defines name.
func (d *Dialect) HasRule(name string) bool {
	_, ok := d.rules[name]
	return ok
}

// Lookup is Rule returning a *ConfigError for unknown names.
func (d *Dialect) Lookup(name string) (grammar.Grammar, error) {
	g, ok := d.rules[name]
	if !ok {
		return nil, &ConfigError{Dialect: d.name, Rule: name, Err: ErrUnknownRule}
	}
	return g, nil
}

// RuleNames returns every rule name (sorted).
func (d *Dialect) RuleNames() []string {
	names := make([]string, 0, len(d.rules))
	for name := range d.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuleStatus reports whether name was inherited, inserted or replaced here.
func (d *Dialect) RuleStatus(name string) RuleStatus {
	return d.status[name]
}

// IsReserved reports whether word is reserved (case-insensitive).
func (d *Dialect) IsReserved(word string) bool {
	_, ok := d.reserved[strings.ToUpper(word)]
	return ok
}

// ReservedWords returns the reserved words (sorted, upper-case).
func (d *Dialect) ReservedWords() []string {
	words := make([]string, 0, len(d.reserved))
	for w := range d.reserved {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Symbols returns the multi-character operators the lexer should recognize.
func (d *Dialect) Symbols() []string {
	out := make([]string, len(d.symbols))
	copy(out, d.symbols)
	return out
}

// RootRule returns the name of the node wrapping a parsed file.
func (d *Dialect) RootRule() string { return d.root }

// StatementRule returns the rule matched for each top-level statement.
func (d *Dialect) StatementRule() string { return d.statement }

// Terminator returns the statement terminator grammar, or nil.
func (d *Dialect) Terminator() grammar.Grammar { return d.terminator }

// SyncPolicy returns the resynchronization policy used after unparsable input.
func (d *Dialect) SyncPolicy() SyncPolicy { return d.sync }
