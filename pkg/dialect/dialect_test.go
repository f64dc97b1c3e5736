package dialect

import (
	"errors"
	"testing"

	g "github.com/leapstack-labs/leapparse/pkg/grammar"
	"github.com/leapstack-labs/leapparse/pkg/lexer"
	"github.com/leapstack-labs/leapparse/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDefinition(name string) *Definition {
	return NewDialect(name).
		Statement("StatementSegment").
		Terminator(g.Sym(";")).
		Sync(TerminatorSync(";")).
		Reserve("select", "from", "all").
		Symbols("<=", ">=").
		Insert("StatementSegment", g.R("SelectStatementSegment")).
		Insert("SelectStatementSegment", g.Seq(g.Kw("SELECT"), g.R("ExpressionSegment"))).
		Insert("ExpressionSegment", g.Any(g.Ident("identifier"), g.R("LiteralGrammar"))).
		Insert("LiteralGrammar", g.Tok(token.Number, "numeric_literal")).
		Build()
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpInsert, "insert"},
		{OpReplace, "replace"},
		{OpRemove, "remove"},
		{OpExtend, "extend"},
		{OpAppend, "append"},
		{Op(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestResolveBase(t *testing.T) {
	d, err := Resolve(baseDefinition("base"), nil)
	require.NoError(t, err)

	assert.Equal(t, "base", d.Name())
	assert.Empty(t, d.Parent())
	assert.Equal(t, "FileSegment", d.RootRule(), "root defaults to FileSegment")
	assert.Equal(t, "StatementSegment", d.StatementRule())
	assert.Equal(t, []string{"ExpressionSegment", "LiteralGrammar", "SelectStatementSegment", "StatementSegment"}, d.RuleNames())
	assert.True(t, d.IsReserved("Select"))
	assert.False(t, d.IsReserved("date"))
	assert.Equal(t, []string{"<=", ">="}, d.Symbols())
	assert.Equal(t, Inserted, d.RuleStatus("SelectStatementSegment"))
	assert.NotNil(t, d.Terminator())
	assert.NotNil(t, d.SyncPolicy())
}

func TestResolveChild(t *testing.T) {
	base, err := Resolve(baseDefinition("base"), nil)
	require.NoError(t, err)

	def := NewDialect("child").
		Parent("base").
		Replace("ExpressionSegment", g.Any(g.Ident("identifier"), g.R("LiteralGrammar"), g.R("LambdaSegment"))).
		Insert("LambdaSegment", g.Seq(g.Ident("parameter"), g.Sym("->"), g.R("ExpressionSegment"))).
		Reserve("qualify").
		Unreserve("all").
		Symbols("->").
		Build()

	child, err := Resolve(def, base)
	require.NoError(t, err)

	assert.Equal(t, "base", child.Parent())
	assert.Equal(t, Replaced, child.RuleStatus("ExpressionSegment"))
	assert.Equal(t, Inserted, child.RuleStatus("LambdaSegment"))
	assert.Equal(t, Inherited, child.RuleStatus("SelectStatementSegment"))
	assert.True(t, child.IsReserved("QUALIFY"))
	assert.False(t, child.IsReserved("ALL"), "unreserved in child")
	assert.Equal(t, []string{"->", "<=", ">="}, child.Symbols())
	assert.Equal(t, "StatementSegment", child.StatementRule(), "inherited")

	// The parent table is untouched.
	assert.False(t, base.HasRule("LambdaSegment"))
	assert.True(t, base.IsReserved("ALL"))
	parentExpr, _ := base.Rule("ExpressionSegment")
	childExpr, _ := child.Rule("ExpressionSegment")
	assert.NotEqual(t, parentExpr, childExpr)
}

func TestResolveErrors(t *testing.T) {
	base, err := Resolve(baseDefinition("base"), nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		def     *Definition
		parent  *Dialect
		wantErr error
		rule    string
	}{
		{
			name:    "insert existing",
			def:     NewDialect("c").Parent("base").Insert("ExpressionSegment", g.Kw("X")).Build(),
			parent:  base,
			wantErr: ErrRuleExists,
			rule:    "ExpressionSegment",
		},
		{
			name:    "replace missing",
			def:     NewDialect("c").Parent("base").Replace("NopeSegment", g.Kw("X")).Build(),
			parent:  base,
			wantErr: ErrRuleMissing,
			rule:    "NopeSegment",
		},
		{
			name:    "remove missing",
			def:     NewDialect("c").Parent("base").Remove("NopeSegment").Build(),
			parent:  base,
			wantErr: ErrRuleMissing,
			rule:    "NopeSegment",
		},
		{
			name:    "remove still referenced",
			def:     NewDialect("c").Parent("base").Remove("LiteralGrammar").Build(),
			parent:  base,
			wantErr: ErrUnresolvedRef,
			rule:    "ExpressionSegment",
		},
		{
			name:    "dangling ref",
			def:     NewDialect("c").Parent("base").Insert("FooSegment", g.R("BarSegment")).Build(),
			parent:  base,
			wantErr: ErrUnresolvedRef,
			rule:    "FooSegment",
		},
		{
			name:    "no statement rule",
			def:     NewDialect("c").Insert("FooSegment", g.Kw("X")).Build(),
			wantErr: ErrMissingEntryPoint,
		},
		{
			name:    "parent not supplied",
			def:     NewDialect("c").Parent("base").Build(),
			wantErr: ErrUnknownDialect,
		},
		{
			name:    "empty one-of",
			def:     NewDialect("c").Parent("base").Insert("FooSegment", g.Any()).Build(),
			parent:  base,
			wantErr: ErrInvalidGrammar,
			rule:    "FooSegment",
		},
		{
			name:    "inverted repetition bounds",
			def:     NewDialect("c").Parent("base").Insert("FooSegment", g.Between(3, 1, g.Kw("X"))).Build(),
			parent:  base,
			wantErr: ErrInvalidGrammar,
			rule:    "FooSegment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.def, tt.parent)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "error should be a *ConfigError")
			assert.Equal(t, "c", cfgErr.Dialect)
			assert.Equal(t, tt.rule, cfgErr.Rule)
		})
	}
}

func TestReplaceAfterInsertStaysInserted(t *testing.T) {
	base, err := Resolve(baseDefinition("base"), nil)
	require.NoError(t, err)

	def := NewDialect("c").Parent("base").
		Insert("FooSegment", g.Kw("X")).
		Replace("FooSegment", g.Kw("Y")).
		Build()
	d, err := Resolve(def, base)
	require.NoError(t, err)

	assert.Equal(t, Inserted, d.RuleStatus("FooSegment"))
	foo, ok := d.Rule("FooSegment")
	require.True(t, ok)
	assert.Equal(t, g.Kw("Y"), foo)
}

func TestExtendAndAppend(t *testing.T) {
	base, err := Resolve(baseDefinition("base"), nil)
	require.NoError(t, err)

	def := NewDialect("c").Parent("base").
		Extend("ExpressionSegment", g.Tok(token.String, "quoted_literal")).
		Extend("StatementSegment", g.Kw("VACUUM")).
		Append("SelectStatementSegment", g.Opt(g.Kw("LIMIT"))).
		Append("LiteralGrammar", g.Opt(g.Kw("PERCENT"))).
		Build()
	d, err := Resolve(def, base)
	require.NoError(t, err)

	expr, _ := d.Rule("ExpressionSegment")
	require.IsType(t, g.OneOf{}, expr)
	assert.Len(t, expr.(g.OneOf).Options, 3)

	stmt, _ := d.Rule("StatementSegment")
	assert.Equal(t, g.Any(g.R("SelectStatementSegment"), g.Kw("VACUUM")), stmt, "a non one-of rule is wrapped")

	sel, _ := d.Rule("SelectStatementSegment")
	require.IsType(t, g.Sequence{}, sel)
	assert.Len(t, sel.(g.Sequence).Items, 3)

	lit, _ := d.Rule("LiteralGrammar")
	assert.Equal(t, g.Seq(g.Tok(token.Number, "numeric_literal"), g.Opt(g.Kw("PERCENT"))), lit)

	assert.Equal(t, Replaced, d.RuleStatus("ExpressionSegment"))

	// The parent's grammar values are untouched.
	parentExpr, _ := base.Rule("ExpressionSegment")
	assert.Len(t, parentExpr.(g.OneOf).Options, 2)
	parentSel, _ := base.Rule("SelectStatementSegment")
	assert.Len(t, parentSel.(g.Sequence).Items, 2)

	_, err = Resolve(NewDialect("c").Parent("base").Extend("NopeSegment", g.Kw("X")).Build(), base)
	assert.ErrorIs(t, err, ErrRuleMissing)
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Dialect: "duckdb", Rule: "FooSegment", Err: ErrRuleMissing}
	assert.Equal(t, `dialect "duckdb": rule "FooSegment": rule does not exist`, err.Error())

	err = &ConfigError{Dialect: "nope", Err: ErrUnknownDialect}
	assert.Equal(t, `dialect "nope": unknown dialect`, err.Error())
}

func TestLookup(t *testing.T) {
	d, err := Resolve(baseDefinition("base"), nil)
	require.NoError(t, err)

	_, err = d.Lookup("SelectStatementSegment")
	require.NoError(t, err)

	_, err = d.Lookup("MissingSegment")
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestRegistryLoad(t *testing.T) {
	Register(baseDefinition("reg_base"))
	Register(NewDialect("reg_child").Parent("REG_BASE").Insert("FooSegment", g.Kw("X")).Build())

	child, err := Load("Reg_Child")
	require.NoError(t, err)
	assert.True(t, child.HasRule("FooSegment"))
	assert.True(t, child.HasRule("SelectStatementSegment"))

	again, err := Load("reg_child")
	require.NoError(t, err)
	assert.Same(t, child, again, "resolved dialects are cached")

	assert.Contains(t, List(), "reg_base")
	assert.Contains(t, List(), "reg_child")

	def, ok := Get("reg_child")
	require.True(t, ok)
	assert.Equal(t, "reg_child", def.Name())
	assert.Equal(t, "REG_BASE", def.ParentName())
	require.Len(t, def.Patches(), 1)
	assert.Equal(t, OpInsert, def.Patches()[0].Op)
}

func TestRegistryErrors(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrDialectRequired)

	_, err = Load("does_not_exist")
	assert.ErrorIs(t, err, ErrUnknownDialect)

	Register(NewDialect("orphan").Parent("missing_parent").Build())
	_, err = Load("orphan")
	assert.ErrorIs(t, err, ErrUnknownDialect)
	assert.Contains(t, err.Error(), "missing_parent")

	Register(NewDialect("cycle_a").Parent("cycle_b").Build())
	Register(NewDialect("cycle_b").Parent("cycle_a").Build())
	_, err = Load("cycle_a")
	assert.ErrorIs(t, err, ErrInheritanceCycle)
	assert.Contains(t, err.Error(), "cycle_a -> cycle_b -> cycle_a")

	assert.Panics(t, func() { MustLoad("does_not_exist") })
}

func TestTerminatorSync(t *testing.T) {
	toks := lexer.Tokenize("select f(a; b) ; select 2")
	policy := TerminatorSync(";")

	end := policy(toks, 0)
	require.Less(t, end, len(toks))
	assert.Equal(t, ";", toks[end].Raw)
	assert.Equal(t, 15, toks[end].Pos.Offset, "the bracketed semicolon is skipped")

	assert.Equal(t, len(toks), policy(toks, end+1), "no terminator after the last statement")
}

func TestKeywordSync(t *testing.T) {
	toks := lexer.Tokenize("selec 1 (select 2) select 3")
	policy := KeywordSync("SELECT")

	end := policy(toks, 0)
	require.Less(t, end, len(toks))
	assert.Equal(t, 19, toks[end].Pos.Offset)

	// The word at start is never a boundary.
	assert.Equal(t, len(toks), policy(toks, end))
}

func TestFirstOf(t *testing.T) {
	toks := lexer.Tokenize("x select y; z")
	policy := FirstOf(TerminatorSync(";"), KeywordSync("select"), nil)

	end := policy(toks, 0)
	assert.Equal(t, "select", toks[end].Raw)
	assert.Equal(t, len(toks), ToEnd(toks, 0))
}
