package duckdb

import (
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

// PIVOT (sum(x) AS total FOR col IN (...) GROUP BY ...), following a table expression.
var fromPivot = g.Seq(
	g.Kw("PIVOT"),
	g.Parens(g.Seq(
		g.CSV(g.Seq(g.R("FunctionSegment"), g.Opt(g.R("AliasExpressionSegment")))),
		g.Kw("FOR"),
		g.AtLeast(1, g.R("PivotForClauseSegment")),
		g.Opt(g.R("GroupByClauseSegment")),
	)),
)

// col IN (v1, v2 AS alias) or col IN *
var pivotFor = g.Seq(
	g.Any(
		g.R("ColumnReferenceSegment"),
		g.R("BracketedColumnListGrammar"),
	),
	g.Kw("IN"),
	g.Any(
		g.Parens(g.CSV(g.R("PivotValueGrammar"))),
		g.NamedSym("*", "star"),
	),
)

var pivotValue = g.Seq(
	g.R("ExpressionSegment"),
	g.OptSeq(
		g.Opt(g.Kw("AS")),
		g.Any(g.R("SingleIdentifierGrammar"), g.R("QuotedLiteralSegment")),
	),
)

// UNPIVOT (value FOR name IN (...)), following a table expression.
var unpivotClause = g.Seq(
	g.Kw("UNPIVOT"),
	g.Opt(g.R("UnpivotNullsGrammar")),
	g.Parens(g.Seq(
		g.Any(
			g.R("ColumnReferenceSegment"),
			g.R("BracketedColumnListGrammar"),
		),
		g.Kw("FOR"),
		g.R("ColumnReferenceSegment"),
		g.Kw("IN"),
		g.Parens(g.CSV(g.R("PivotValueGrammar"))),
	)),
)

// FROM tbl UNPIVOT (...) as a statement of its own.
var fromUnpivot = g.Seq(
	g.Kw("FROM"),
	g.R("TableExpressionSegment"),
	g.R("UnpivotClauseSegment"),
)

// PIVOT tbl ON col [IN (...)] USING agg(x) [GROUP BY ...]
var simplifiedPivot = g.Seq(
	g.Kw("PIVOT"),
	g.R("TableExpressionSegment"),
	g.OptSeq(
		g.Kw("ON"),
		g.CSV(g.Seq(
			g.R("ExpressionSegment"),
			g.OptSeq(g.Kw("IN"), g.Parens(g.CSV(g.R("PivotValueGrammar")))),
		)),
	),
	g.OptSeq(
		g.Kw("USING"),
		g.CSV(g.Seq(g.R("FunctionSegment"), g.Opt(g.R("AliasExpressionSegment")))),
	),
	g.Opt(g.R("GroupByClauseSegment")),
	g.Opt(g.R("OrderByClauseSegment")),
	g.Opt(g.R("LimitClauseSegment")),
)

// UNPIVOT tbl ON cols INTO NAME n VALUE v
var simplifiedUnpivot = g.Seq(
	g.Kw("UNPIVOT"),
	g.Opt(g.R("UnpivotNullsGrammar")),
	g.R("TableExpressionSegment"),
	g.Kw("ON"),
	g.CSV(g.Seq(
		g.Any(
			g.R("ExpressionSegment"),
			g.R("BracketedColumnListGrammar"),
		),
		g.Opt(g.R("AliasExpressionSegment")),
	)),
	g.OptSeq(
		g.Kw("INTO"),
		g.Kw("NAME"),
		g.R("SingleIdentifierGrammar"),
		g.Kw("VALUE"),
		g.CSV(g.R("SingleIdentifierGrammar")),
	),
)
