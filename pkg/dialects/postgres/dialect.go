// Package postgres provides the PostgreSQL SQL dialect definition.
// It inherits ANSI and adds the :: cast, JSON and regex operators, ILIKE,
// DISTINCT ON, ARRAY constructors, RETURNING, CREATE TYPE and COPY.
package postgres

import (
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	_ "github.com/leapstack-labs/leapparse/pkg/dialects/ansi" // parent dialect
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

func init() {
	dialect.Register(Postgres)
}

// postgresReservedWords contains common PostgreSQL reserved words.
// This is a manually maintained list of frequently problematic identifiers.
// For a complete list, use pg_get_keywords() at runtime.
var postgresReservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where", "index",
	"all", "and", "any", "array", "as", "asc", "asymmetric", "authorization",
	"between", "binary", "both", "case", "cast", "check", "collate", "column",
	"constraint", "create", "cross", "current_catalog", "current_date",
	"current_role", "current_schema", "current_time", "current_timestamp",
	"current_user", "default", "deferrable", "desc", "distinct", "do", "else",
	"end", "except", "false", "fetch", "for", "foreign", "freeze", "full",
	"grant", "having", "ilike", "in", "initially", "inner", "intersect",
	"into", "is", "isnull", "join", "lateral", "leading", "left", "like",
	"limit", "localtime", "localtimestamp", "natural", "not", "notnull",
	"null", "offset", "on", "only", "or", "outer", "overlaps", "placing",
	"primary", "references", "returning", "right", "session_user", "similar",
	"some", "symmetric", "then", "to", "trailing", "true", "union", "unique",
	"using", "variadic", "verbose", "when", "window", "with",
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.NewDialect("postgres").
	Parent("ansi").
	Symbols("::", "->", "->>", "#>", "#>>", "@>", "<@", "~*", "!~", "!~*", "&&").
	Reserve(postgresReservedWords...).
	// Operators
	Extend("BinaryOperatorGrammar",
		g.NamedSym("->", "binary_operator"),
		g.NamedSym("->>", "binary_operator"),
		g.NamedSym("#>", "binary_operator"),
		g.NamedSym("#>>", "binary_operator"),
		g.NamedSym("@>", "comparison_operator"),
		g.NamedSym("<@", "comparison_operator"),
		g.NamedSym("&&", "comparison_operator"),
		g.NamedSym("~", "comparison_operator"),
		g.NamedSym("~*", "comparison_operator"),
		g.NamedSym("!~", "comparison_operator"),
		g.NamedSym("!~*", "comparison_operator"),
		g.NamedSym("^", "binary_operator"),
	).
	Extend("LikeOperatorGrammar", g.Kw("ILIKE")).
	Extend("AccessorGrammar", g.R("ShorthandCastSegment")).
	Insert("ShorthandCastSegment", g.Seq(
		g.NamedSym("::", "casting_operator"),
		g.R("DatatypeSegment"),
	)).
	Extend("BareFunctionSegment", g.AnyKw(
		"CURRENT_USER", "CURRENT_ROLE", "CURRENT_SCHEMA", "CURRENT_CATALOG",
		"SESSION_USER", "LOCALTIME", "LOCALTIMESTAMP",
	)).
	Extend("PrimaryGrammar", g.R("ArrayConstructorSegment")).
	Insert("ArrayConstructorSegment", g.Seq(
		g.Kw("ARRAY"),
		g.Any(
			g.Square(g.Opt(g.CSV(g.R("ExpressionSegment")))),
			g.Parens(g.R("SelectableGrammar")),
		),
	)).
	// DISTINCT ON (expr, ...)
	Extend("SelectClauseModifierSegment", g.Seq(
		g.Kws("DISTINCT", "ON"),
		g.Parens(g.CSV(g.R("ExpressionSegment"))),
	)).
	// RETURNING
	Insert("ReturningClauseSegment", g.Seq(
		g.Kw("RETURNING"),
		g.CSV(g.R("SelectClauseElementSegment")),
	)).
	Append("InsertStatementSegment", g.Opt(g.R("ReturningClauseSegment"))).
	Append("UpdateStatementSegment", g.Opt(g.R("ReturningClauseSegment"))).
	Append("DeleteStatementSegment", g.Opt(g.R("ReturningClauseSegment"))).
	// Statements
	Extend("StatementSegment",
		g.R("CreateTypeStatementSegment"),
		g.R("CopyStatementSegment"),
	).
	Insert("CreateTypeStatementSegment", g.Seq(
		g.Kws("CREATE", "TYPE"),
		g.R("ObjectReferenceGrammar"),
		g.Kw("AS"),
		g.Any(
			g.R("EnumTypeSegment"),
			g.Parens(g.CSV(g.Seq(g.R("SingleIdentifierGrammar"), g.R("DatatypeSegment")))),
		),
	)).
	Insert("EnumTypeSegment", g.Seq(
		g.Kw("ENUM"),
		g.Parens(g.Opt(g.CSV(g.R("QuotedLiteralSegment")))),
	)).
	Insert("CopyStatementSegment", g.Seq(
		g.Kw("COPY"),
		g.Any(
			g.Seq(g.R("TableReferenceSegment"), g.Opt(g.R("BracketedColumnListGrammar"))),
			g.Parens(g.R("SelectableGrammar")),
		),
		g.AnyKw("FROM", "TO"),
		g.Any(g.R("QuotedLiteralSegment"), g.AnyKw("STDIN", "STDOUT")),
		g.Opt(g.Kw("WITH")),
		g.Opt(g.Parens(g.CSV(g.R("CopyOptionSegment")))),
	)).
	Insert("CopyOptionSegment", g.Seq(
		g.R("SingleIdentifierGrammar"),
		g.Opt(g.Any(
			g.R("LiteralGrammar"),
			g.R("SingleIdentifierGrammar"),
			g.Parens(g.CSV(g.Any(g.R("LiteralGrammar"), g.R("SingleIdentifierGrammar")))),
		)),
	)).
	Build()
