package duckdb

import (
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

// INSERT [OR REPLACE | OR IGNORE] INTO ...
var insertStatement = g.Seq(
	g.Kw("INSERT"),
	g.OptSeq(g.Kw("OR"), g.AnyKw("REPLACE", "IGNORE")),
	g.Kw("INTO"),
	g.R("TableReferenceSegment"),
	g.OptSeq(g.Kw("AS"), g.R("SingleIdentifierGrammar")),
	g.OptSeq(g.Kw("BY"), g.AnyKw("NAME", "POSITION")),
	g.Opt(g.R("BracketedColumnListGrammar")),
	g.Any(
		g.Kws("DEFAULT", "VALUES"),
		g.R("SelectableGrammar"),
	),
	g.Opt(g.R("ReturningClauseSegment")),
)

// Nested STRUCT and MAP types are accepted in addition to ENUM, and member
// names are required.
var createType = g.Seq(
	g.Kws("CREATE", "TYPE"),
	g.R("ObjectReferenceGrammar"),
	g.Kw("AS"),
	g.Any(
		g.Seq(
			g.Kw("ENUM"),
			g.Parens(g.Any(
				g.R("SelectableGrammar"),
				g.Opt(g.CSV(g.R("QuotedLiteralSegment"))),
			)),
		),
		g.R("DatatypeSegment"),
	),
)

// CREATE MACRO name(a, b := 1) AS expr | AS TABLE select
var createMacro = g.Seq(
	g.Kw("CREATE"),
	g.Opt(g.R("OrReplaceGrammar")),
	g.Opt(g.R("TemporaryGrammar")),
	g.AnyKw("MACRO", "FUNCTION"),
	g.Opt(g.R("IfNotExistsGrammar")),
	g.R("FunctionNameSegment"),
	g.Parens(g.Opt(g.CSV(g.R("MacroParameterGrammar")))),
	g.Kw("AS"),
	g.Any(
		g.Seq(g.Kw("TABLE"), g.R("SelectableGrammar")),
		g.R("ExpressionSegment"),
	),
)

var macroParameter = g.Seq(
	g.R("SingleIdentifierGrammar"),
	g.OptSeq(g.NamedSym(":=", "assignment_operator"), g.R("ExpressionSegment")),
)

var describeStatement = g.Seq(
	g.AnyKw("DESCRIBE", "SUMMARIZE"),
	g.Any(
		g.R("SelectableGrammar"),
		g.R("TableReferenceSegment"),
	),
)

// PRAGMA name, PRAGMA name = value, PRAGMA name(args)
var pragmaStatement = g.Seq(
	g.Kw("PRAGMA"),
	g.R("SingleIdentifierGrammar"),
	g.Opt(g.Any(
		g.Seq(g.NamedSym("=", "assignment_operator"), g.R("LiteralGrammar")),
		g.Parens(g.Opt(g.CSV(g.R("LiteralGrammar")))),
	)),
)
