package duckdb

import (
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

// GROUP BY ALL groups by every non-aggregated select item.
var groupByClause = g.Seq(
	g.Kws("GROUP", "BY"),
	g.Any(
		g.Kw("ALL"),
		g.CSV(g.R("GroupingExpressionGrammar")),
	),
)

// ORDER BY ALL orders by every select item, left to right.
var orderByClause = g.Seq(
	g.Kws("ORDER", "BY"),
	g.Any(
		g.Seq(
			g.Kw("ALL"),
			g.Opt(g.AnyKw("ASC", "DESC")),
			g.OptSeq(g.Kw("NULLS"), g.AnyKw("FIRST", "LAST")),
		),
		g.CSV(g.R("OrderByItemGrammar")),
	),
)

var wildcardExpression = g.Seq(
	g.R("WildcardIdentifierSegment"),
	g.Opt(g.R("WildcardExcludeExpressionSegment")),
	g.Opt(g.R("WildcardReplaceExpressionSegment")),
	g.Opt(g.R("WildcardRenameExpressionSegment")),
	g.Opt(g.R("WildcardPatternMatchingSegment")),
)

// * EXCLUDE (a, b)
var wildcardExclude = g.Seq(
	g.Kw("EXCLUDE"),
	g.Any(
		g.Parens(g.CSVTrailing(g.R("ColumnReferenceSegment"))),
		g.R("ColumnReferenceSegment"),
	),
)

// * REPLACE (a + 1 AS a)
var wildcardReplace = g.Seq(
	g.Kw("REPLACE"),
	g.Any(
		g.Parens(g.CSVTrailing(g.Seq(g.R("ExpressionSegment"), g.R("AliasExpressionSegment")))),
		g.Seq(g.R("ExpressionSegment"), g.R("AliasExpressionSegment")),
	),
)

// * RENAME (a AS b)
var wildcardRename = g.Seq(
	g.Kw("RENAME"),
	g.Any(
		g.Parens(g.CSVTrailing(g.Seq(g.R("ColumnReferenceSegment"), g.R("AliasExpressionSegment")))),
		g.Seq(g.R("ColumnReferenceSegment"), g.R("AliasExpressionSegment")),
	),
)

// * LIKE 'col%'
var wildcardPatternMatching = g.Seq(
	g.Opt(g.Kw("NOT")),
	g.R("LikeOperatorGrammar"),
	g.R("QuotedLiteralSegment"),
)

// A table expression may be followed by PIVOT or UNPIVOT, before or after
// its alias.
var fromExpressionElement = g.Seq(
	g.R("TableExpressionSegment"),
	g.Opt(g.R("AliasExpressionSegment")),
	g.Opt(g.Any(
		g.R("FromPivotExpressionSegment"),
		g.R("UnpivotClauseSegment"),
	)),
	g.Opt(g.R("AliasExpressionSegment")),
)

// x -> x + 1, (a, b) -> a + b, lambda x: x + 1
var lambda = g.Any(
	g.Seq(
		g.Any(
			g.R("SingleIdentifierGrammar"),
			g.Parens(g.CSV(g.R("SingleIdentifierGrammar"))),
		),
		g.NamedSym("->", "lambda_arrow"),
		g.R("ExpressionSegment"),
	),
	g.Seq(
		g.Kw("LAMBDA"),
		g.CSV(g.R("SingleIdentifierGrammar")),
		g.NamedSym(":", "colon"),
		g.R("ExpressionSegment"),
	),
)

var namedArgument = g.Seq(
	g.R("SingleIdentifierGrammar"),
	g.Any(
		g.NamedSym(":=", "assignment_operator"),
		g.NamedSym("=>", "assignment_operator"),
	),
	g.R("ExpressionSegment"),
)

// [expr FOR x IN list IF cond]
var listComprehension = g.Square(g.Seq(
	g.R("ExpressionSegment"),
	g.Kw("FOR"),
	g.CSV(g.R("SingleIdentifierGrammar")),
	g.Kw("IN"),
	g.R("ExpressionSegment"),
	g.OptSeq(g.Kw("IF"), g.R("ExpressionSegment")),
))

// {'key': value, ...}
var structLiteral = g.Braces(g.Opt(g.CSVTrailing(g.Seq(
	g.Any(g.R("QuotedLiteralSegment"), g.R("SingleIdentifierGrammar")),
	g.NamedSym(":", "colon"),
	g.R("ExpressionSegment"),
))))
