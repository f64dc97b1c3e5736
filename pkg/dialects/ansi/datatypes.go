package ansi

import (
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

var datatype = g.Seq(
	g.R("BaseDatatypeGrammar"),
	g.Many(g.R("ArrayTypeSuffixSegment")),
)

// Dialects extend BaseDatatypeGrammar with their composite types.
var baseDatatype = g.Any(
	g.Seq(g.Kw("DOUBLE"), g.Opt(g.Kw("PRECISION"))),
	g.Seq(
		g.AnyKw("TIMESTAMP", "TIME"),
		g.Opt(g.R("BracketedArgumentsSegment")),
		g.OptSeq(g.AnyKw("WITH", "WITHOUT"), g.Kws("TIME", "ZONE")),
	),
	g.Seq(g.AnyKw("CHARACTER", "CHAR"), g.Opt(g.Kw("VARYING")), g.Opt(g.R("BracketedArgumentsSegment"))),
	g.Seq(
		g.R("DatatypeIdentifierSegment"),
		g.Opt(g.R("BracketedArgumentsSegment")),
	),
)

// Type arguments are numeric: VARCHAR(255), DECIMAL(10, 2).
var bracketedArguments = g.Parens(g.CSV(g.R("NumericLiteralSegment")))
