package ansi

import (
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

// ---------- SELECT list ----------

var selectClause = g.Seq(
	g.Kw("SELECT"),
	g.Opt(g.R("SelectClauseModifierSegment")),
	g.CSV(g.R("SelectClauseElementSegment")),
)

var selectClauseElement = g.Any(
	g.R("WildcardExpressionSegment"),
	g.Seq(g.R("ExpressionSegment"), g.Opt(g.R("AliasExpressionSegment"))),
)

// t.* or *
var wildcardIdentifier = g.Seq(
	g.Many(g.Seq(g.R("SingleIdentifierGrammar"), g.NamedSym(".", "dot"))),
	g.NamedSym("*", "star"),
)

var aliasExpression = g.Seq(
	g.Opt(g.Kw("AS")),
	g.R("SingleIdentifierGrammar"),
	g.Opt(g.R("BracketedColumnListGrammar")),
)

// ---------- FROM ----------

var fromClause = g.Seq(
	g.Kw("FROM"),
	g.CSV(g.R("FromExpressionSegment")),
)

var fromExpression = g.Seq(
	g.R("FromExpressionElementSegment"),
	g.Many(g.R("JoinClauseSegment")),
)

var fromExpressionElement = g.Seq(
	g.R("TableExpressionSegment"),
	g.Opt(g.R("AliasExpressionSegment")),
)

var tableExpression = g.Any(
	g.R("FunctionSegment"),
	g.R("TableReferenceSegment"),
	g.Parens(g.R("SelectableGrammar")),
	g.Parens(g.R("FromExpressionSegment")),
)

var joinClause = g.Seq(
	g.Opt(g.R("JoinTypeKeywordsGrammar")),
	g.Kw("JOIN"),
	g.R("FromExpressionElementSegment"),
	g.Opt(g.Any(
		g.R("JoinOnConditionSegment"),
		g.R("JoinUsingConditionSegment"),
	)),
)

var joinTypeKeywords = g.Any(
	g.Kw("INNER"),
	g.Seq(g.AnyKw("LEFT", "RIGHT", "FULL"), g.Opt(g.Kw("OUTER"))),
	g.Kw("CROSS"),
	g.Seq(g.Kw("NATURAL"), g.Opt(g.Seq(g.AnyKw("LEFT", "RIGHT", "FULL", "INNER"), g.Opt(g.Kw("OUTER"))))),
)

// ---------- Grouping ----------

var groupByClause = g.Seq(
	g.Kws("GROUP", "BY"),
	g.CSV(g.R("GroupingExpressionGrammar")),
)

var groupingExpression = g.Any(
	g.R("CubeRollupClauseSegment"),
	g.R("GroupingSetsClauseSegment"),
	g.R("ExpressionSegment"),
)

var cubeRollup = g.Seq(
	g.AnyKw("CUBE", "ROLLUP"),
	g.Parens(g.CSV(g.R("ExpressionSegment"))),
)

var groupingSets = g.Seq(
	g.Kws("GROUPING", "SETS"),
	g.Parens(g.CSV(g.Any(
		g.R("CubeRollupClauseSegment"),
		g.R("ExpressionSegment"),
		g.Parens(g.Opt(g.CSV(g.R("ExpressionSegment")))),
	))),
)

var namedWindow = g.Seq(
	g.Kw("WINDOW"),
	g.CSV(g.Seq(
		g.R("SingleIdentifierGrammar"),
		g.Kw("AS"),
		g.R("WindowSpecificationSegment"),
	)),
)

// ---------- Ordering and paging ----------

var orderByClause = g.Seq(
	g.Kws("ORDER", "BY"),
	g.CSV(g.R("OrderByItemGrammar")),
)

var orderByItem = g.Seq(
	g.R("ExpressionSegment"),
	g.Opt(g.AnyKw("ASC", "DESC")),
	g.OptSeq(g.Kw("NULLS"), g.AnyKw("FIRST", "LAST")),
)

var limitClause = g.Seq(
	g.Kw("LIMIT"),
	g.Any(g.Kw("ALL"), g.R("ExpressionSegment")),
)

var offsetClause = g.Seq(
	g.Kw("OFFSET"),
	g.R("ExpressionSegment"),
	g.Opt(g.AnyKw("ROW", "ROWS")),
)
