package ansi

import (
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

// SelectStatement builds the SELECT grammar. Clauses passed in are matched,
// in order, between WINDOW and ORDER BY; dialects use it for QUALIFY and
// similar extensions.
func SelectStatement(clauses ...g.Grammar) g.Grammar {
	items := []g.Grammar{
		g.R("SelectClauseSegment"),
		g.Opt(g.R("FromClauseSegment")),
		g.Opt(g.R("WhereClauseSegment")),
		g.Opt(g.R("GroupByClauseSegment")),
		g.Opt(g.R("HavingClauseSegment")),
		g.Opt(g.R("NamedWindowSegment")),
	}
	for _, c := range clauses {
		items = append(items, g.Opt(c))
	}
	items = append(items,
		g.Opt(g.R("OrderByClauseSegment")),
		g.Opt(g.R("LimitClauseSegment")),
		g.Opt(g.R("OffsetClauseSegment")),
	)
	return g.Seq(items...)
}

var withCompound = g.Seq(
	g.Kw("WITH"),
	g.Opt(g.Kw("RECURSIVE")),
	g.CSV(g.R("CTEDefinitionSegment")),
	g.R("NonWithSelectableGrammar"),
)

var cteDefinition = g.Seq(
	g.R("SingleIdentifierGrammar"),
	g.Opt(g.R("BracketedColumnListGrammar")),
	g.Kw("AS"),
	g.Parens(g.R("SelectableGrammar")),
)

var setExpression = g.Seq(
	g.R("NonSetSelectableGrammar"),
	g.AtLeast(1, g.Seq(g.R("SetOperatorSegment"), g.R("NonSetSelectableGrammar"))),
	g.Opt(g.R("OrderByClauseSegment")),
	g.Opt(g.R("LimitClauseSegment")),
)

var setOperator = g.Seq(
	g.AnyKw("UNION", "INTERSECT", "EXCEPT"),
	g.Opt(g.AnyKw("ALL", "DISTINCT")),
)

var insertStatement = g.Seq(
	g.Kw("INSERT"),
	g.Kw("INTO"),
	g.R("TableReferenceSegment"),
	g.Opt(g.R("BracketedColumnListGrammar")),
	g.Any(
		g.Kws("DEFAULT", "VALUES"),
		g.R("SelectableGrammar"),
	),
)

var valuesClause = g.Seq(
	g.AnyKw("VALUES", "VALUE"),
	g.CSV(g.Parens(g.CSV(g.Any(g.Kw("DEFAULT"), g.R("ExpressionSegment"))))),
)

var updateStatement = g.Seq(
	g.Kw("UPDATE"),
	g.R("TableReferenceSegment"),
	g.Opt(g.R("AliasExpressionSegment")),
	g.Kw("SET"),
	g.CSV(g.R("SetClauseSegment")),
	g.Opt(g.R("FromClauseSegment")),
	g.Opt(g.R("WhereClauseSegment")),
)

var setClause = g.Seq(
	g.R("ColumnReferenceSegment"),
	g.NamedSym("=", "comparison_operator"),
	g.Any(g.Kw("DEFAULT"), g.R("ExpressionSegment")),
)

var deleteStatement = g.Seq(
	g.Kw("DELETE"),
	g.Kw("FROM"),
	g.R("TableReferenceSegment"),
	g.Opt(g.R("AliasExpressionSegment")),
	g.Opt(g.R("WhereClauseSegment")),
)

var createTable = g.Seq(
	g.Kw("CREATE"),
	g.Opt(g.R("OrReplaceGrammar")),
	g.Opt(g.R("TemporaryGrammar")),
	g.Kw("TABLE"),
	g.Opt(g.R("IfNotExistsGrammar")),
	g.R("TableReferenceSegment"),
	g.Any(
		g.GreedyParens(g.CSV(g.Any(
			g.R("TableConstraintSegment"),
			g.R("ColumnDefinitionSegment"),
		))),
		g.Seq(g.Kw("AS"), g.R("SelectableGrammar")),
	),
)

var columnDefinition = g.Seq(
	g.R("SingleIdentifierGrammar"),
	g.R("DatatypeSegment"),
	g.Many(g.R("ColumnConstraintSegment")),
)

var columnConstraint = g.Seq(
	g.OptSeq(g.Kw("CONSTRAINT"), g.R("SingleIdentifierGrammar")),
	g.Any(
		g.Kws("NOT", "NULL"),
		g.Kw("NULL"),
		g.Seq(g.Kw("CHECK"), g.Parens(g.R("ExpressionSegment"))),
		g.Seq(g.Kw("DEFAULT"), g.R("ExpressionSegment")),
		g.Kws("PRIMARY", "KEY"),
		g.Kw("UNIQUE"),
		g.Seq(g.Kw("COLLATE"), g.R("ObjectReferenceGrammar")),
		g.R("ReferenceDefinitionGrammar"),
	),
)

var tableConstraint = g.Seq(
	g.OptSeq(g.Kw("CONSTRAINT"), g.R("SingleIdentifierGrammar")),
	g.Any(
		g.Seq(g.Kws("PRIMARY", "KEY"), g.R("BracketedColumnListGrammar")),
		g.Seq(g.Kw("UNIQUE"), g.R("BracketedColumnListGrammar")),
		g.Seq(g.Kw("CHECK"), g.Parens(g.R("ExpressionSegment"))),
		g.Seq(
			g.Kws("FOREIGN", "KEY"),
			g.R("BracketedColumnListGrammar"),
			g.R("ReferenceDefinitionGrammar"),
		),
	),
)

var referenceDefinition = g.Seq(
	g.Kw("REFERENCES"),
	g.R("TableReferenceSegment"),
	g.Opt(g.R("BracketedColumnListGrammar")),
	g.Many(g.Seq(
		g.Kw("ON"),
		g.AnyKw("DELETE", "UPDATE"),
		g.Any(
			g.Kw("CASCADE"),
			g.Kw("RESTRICT"),
			g.Kws("SET", "NULL"),
			g.Kws("SET", "DEFAULT"),
			g.Kws("NO", "ACTION"),
		),
	)),
)

var createView = g.Seq(
	g.Kw("CREATE"),
	g.Opt(g.R("OrReplaceGrammar")),
	g.Opt(g.R("TemporaryGrammar")),
	g.Kw("VIEW"),
	g.Opt(g.R("IfNotExistsGrammar")),
	g.R("TableReferenceSegment"),
	g.Opt(g.R("BracketedColumnListGrammar")),
	g.Kw("AS"),
	g.R("SelectableGrammar"),
)

var createSchema = g.Seq(
	g.Kws("CREATE", "SCHEMA"),
	g.Opt(g.R("IfNotExistsGrammar")),
	g.R("ObjectReferenceGrammar"),
)

var createFunction = g.Seq(
	g.Kw("CREATE"),
	g.Opt(g.R("OrReplaceGrammar")),
	g.Kw("FUNCTION"),
	g.R("FunctionNameSegment"),
	g.R("FunctionParameterListGrammar"),
	g.Kw("RETURNS"),
	g.R("DatatypeSegment"),
	g.Kw("AS"),
	g.R("QuotedLiteralSegment"),
	g.OptSeq(g.Kw("LANGUAGE"), g.R("SingleIdentifierGrammar")),
)

var functionParameterList = g.Parens(g.Opt(g.CSV(g.Any(
	g.Seq(g.R("SingleIdentifierGrammar"), g.R("DatatypeSegment")),
	g.R("DatatypeSegment"),
))))

var dropStatement = g.Seq(
	g.Kw("DROP"),
	g.AnyKw("TABLE", "VIEW", "SCHEMA", "FUNCTION", "TYPE", "MACRO", "INDEX", "SEQUENCE"),
	g.Opt(g.R("IfExistsGrammar")),
	g.CSV(g.R("ObjectReferenceGrammar")),
	g.Opt(g.AnyKw("CASCADE", "RESTRICT")),
)
