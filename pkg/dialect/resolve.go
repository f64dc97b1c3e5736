package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/grammar"
)

// Resolve builds the rule table of def on top of its already resolved
// parent. parent must be nil for a base dialect and must be the resolved
// form of def.ParentName() otherwise. Only the parent's table is read and
// it is never modified.
func Resolve(def *Definition, parent *Dialect) (*Dialect, error) {
	if def.parent != "" && (parent == nil || !strings.EqualFold(parent.name, def.parent)) {
		return nil, &ConfigError{Dialect: def.name, Err: fmt.Errorf("%w: parent %q not resolved", ErrUnknownDialect, def.parent)}
	}

	d := &Dialect{
		name:     def.name,
		parent:   def.parent,
		rules:    make(map[string]grammar.Grammar),
		status:   make(map[string]RuleStatus),
		reserved: make(map[string]struct{}),
	}
	symbols := make(map[string]struct{})

	if parent != nil {
		for name, g := range parent.rules {
			d.rules[name] = g
			d.status[name] = Inherited
		}
		for w := range parent.reserved {
			d.reserved[w] = struct{}{}
		}
		for _, s := range parent.symbols {
			symbols[s] = struct{}{}
		}
		d.root = parent.root
		d.statement = parent.statement
		d.terminator = parent.terminator
		d.sync = parent.sync
	}

	for _, p := range def.patches {
		if err := apply(d, p); err != nil {
			return nil, err
		}
	}

	for _, w := range def.words {
		if w.reserve {
			d.reserved[w.word] = struct{}{}
		} else {
			delete(d.reserved, w.word)
		}
	}

	for _, s := range def.symbols {
		symbols[s] = struct{}{}
	}
	d.symbols = make([]string, 0, len(symbols))
	for s := range symbols {
		d.symbols = append(d.symbols, s)
	}
	sort.Strings(d.symbols)

	if def.root != "" {
		d.root = def.root
	}
	if def.statement != "" {
		d.statement = def.statement
	}
	if def.terminator != nil {
		d.terminator = def.terminator
	}
	if def.sync != nil {
		d.sync = def.sync
	}
	if d.root == "" {
		d.root = "FileSegment"
	}
	if d.sync == nil {
		d.sync = ToEnd
	}

	if err := validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

func apply(d *Dialect, p Patch) error {
	cfgErr := func(err error) error {
		return &ConfigError{Dialect: d.name, Rule: p.Rule, Err: err}
	}

	_, exists := d.rules[p.Rule]
	switch p.Op {
	case OpInsert:
		if exists {
			return cfgErr(ErrRuleExists)
		}
		if err := checkGrammar(p.Grammar); err != nil {
			return cfgErr(err)
		}
		d.rules[p.Rule] = p.Grammar
		d.status[p.Rule] = Inserted
	case OpReplace:
		if !exists {
			return cfgErr(ErrRuleMissing)
		}
		if err := checkGrammar(p.Grammar); err != nil {
			return cfgErr(err)
		}
		d.rules[p.Rule] = p.Grammar
		// A rule inserted earlier in the same dialect stays inserted.
		if d.status[p.Rule] != Inserted {
			d.status[p.Rule] = Replaced
		}
	case OpRemove:
		if !exists {
			return cfgErr(ErrRuleMissing)
		}
		delete(d.rules, p.Rule)
		delete(d.status, p.Rule)
	case OpExtend, OpAppend:
		if !exists {
			return cfgErr(ErrRuleMissing)
		}
		if err := checkGrammar(p.Grammar); err != nil {
			return cfgErr(err)
		}
		d.rules[p.Rule] = derive(p.Op, d.rules[p.Rule], p.Grammar)
		if d.status[p.Rule] != Inserted {
			d.status[p.Rule] = Replaced
		}
	default:
		return cfgErr(fmt.Errorf("unknown patch operation %d", p.Op))
	}
	return nil
}

// derive builds the grammar of an extend or append patch. The inherited
// grammar is shared with the parent, so its slices are copied, never appended to.
func derive(op Op, cur, patch grammar.Grammar) grammar.Grammar {
	if op == OpExtend {
		extra := patch.(grammar.OneOf).Options
		var options []grammar.Grammar
		if o, ok := cur.(grammar.OneOf); ok {
			options = make([]grammar.Grammar, 0, len(o.Options)+len(extra))
			options = append(options, o.Options...)
		} else {
			options = []grammar.Grammar{cur}
		}
		return grammar.OneOf{Options: append(options, extra...)}
	}

	extra := patch.(grammar.Sequence).Items
	var items []grammar.Grammar
	if s, ok := cur.(grammar.Sequence); ok {
		items = make([]grammar.Grammar, 0, len(s.Items)+len(extra))
		items = append(items, s.Items...)
	} else {
		items = []grammar.Grammar{cur}
	}
	return grammar.Sequence{Items: append(items, extra...)}
}

// checkGrammar rejects structurally broken grammar values.
func checkGrammar(g grammar.Grammar) error {
	if g == nil {
		return fmt.Errorf("%w: nil grammar", ErrInvalidGrammar)
	}
	var err error
	grammar.Walk(g, func(n grammar.Grammar) {
		if err != nil {
			return
		}
		switch n := n.(type) {
		case grammar.OneOf:
			if len(n.Options) == 0 {
				err = fmt.Errorf("%w: one-of without options", ErrInvalidGrammar)
			}
		case grammar.AnyNumberOf:
			if n.Inner == nil || n.Min < 0 || (n.Max != grammar.Unbounded && n.Max < n.Min) {
				err = fmt.Errorf("%w: repetition %s", ErrInvalidGrammar, grammar.Describe(n))
			}
		case grammar.Optional:
			if n.Inner == nil {
				err = fmt.Errorf("%w: empty optional", ErrInvalidGrammar)
			}
		case grammar.Bracketed:
			if n.Open == nil || n.Close == nil {
				err = fmt.Errorf("%w: bracket without open or close", ErrInvalidGrammar)
			}
		case grammar.Delimited:
			if n.Content == nil || n.Delimiter == nil || n.Min < 0 {
				err = fmt.Errorf("%w: delimited list without content or delimiter", ErrInvalidGrammar)
			}
		case grammar.Keyword:
			if n.Word == "" {
				err = fmt.Errorf("%w: empty keyword", ErrInvalidGrammar)
			}
		case grammar.Symbol:
			if n.Text == "" {
				err = fmt.Errorf("%w: empty symbol", ErrInvalidGrammar)
			}
		case grammar.Ref:
			if n.Name == "" {
				err = fmt.Errorf("%w: empty rule reference", ErrInvalidGrammar)
			}
		}
	})
	return err
}

// validate checks the resolved table is total over every reference.
func validate(d *Dialect) error {
	if d.statement == "" {
		return &ConfigError{Dialect: d.name, Err: ErrMissingEntryPoint}
	}
	if _, ok := d.rules[d.statement]; !ok {
		return &ConfigError{Dialect: d.name, Rule: d.statement, Err: fmt.Errorf("%w: statement rule", ErrUnresolvedRef)}
	}

	// Sorted so the reported error is deterministic.
	for _, name := range d.RuleNames() {
		for _, ref := range grammar.Refs(d.rules[name]) {
			if _, ok := d.rules[ref]; !ok {
				return &ConfigError{Dialect: d.name, Rule: name, Err: fmt.Errorf("%w: %s", ErrUnresolvedRef, ref)}
			}
		}
	}
	if d.terminator != nil {
		if err := checkGrammar(d.terminator); err != nil {
			return &ConfigError{Dialect: d.name, Err: fmt.Errorf("terminator: %w", err)}
		}
		for _, ref := range grammar.Refs(d.terminator) {
			if _, ok := d.rules[ref]; !ok {
				return &ConfigError{Dialect: d.name, Err: fmt.Errorf("terminator: %w: %s", ErrUnresolvedRef, ref)}
			}
		}
	}
	return nil
}
