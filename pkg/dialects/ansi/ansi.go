// Package ansi provides the base ANSI SQL dialect: statements, clauses,
// expressions and data types shared by every other dialect.
//
// This dialect serves as the foundation for all other SQL dialects. Dialects like
// DuckDB or PostgreSQL inherit its rule table and insert, replace or extend
// individual rules.
package ansi

import (
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
	"github.com/leapstack-labs/leapparse/pkg/token"
)

func init() {
	dialect.Register(ANSI)
}

// ReservedWords are the words ANSI never accepts as bare identifiers.
var ReservedWords = []string{
	"all", "and", "as", "asc", "between", "by", "case", "cast", "check",
	"collate", "constraint", "create", "cross", "current_date", "current_time",
	"current_timestamp", "default", "delete", "desc", "distinct", "drop",
	"else", "end", "escape", "except", "exists", "false", "for", "foreign",
	"from", "full", "group", "having", "in", "inner", "insert", "intersect",
	"interval", "into", "is", "join", "left", "like", "limit", "natural",
	"not", "null", "offset", "on", "or", "order", "outer", "over",
	"partition", "primary", "references", "right", "select", "set", "table",
	"then", "true", "union", "unique", "update", "using", "values", "when",
	"where", "window", "with",
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.NewDialect("ansi").
	Root("FileSegment").
	Statement("StatementSegment").
	Terminator(g.NamedSym(";", "statement_terminator")).
	Sync(dialect.TerminatorSync(";")).
	Reserve(ReservedWords...).
	// Statements
	Insert("StatementSegment", g.Any(
		g.R("SelectableGrammar"),
		g.R("InsertStatementSegment"),
		g.R("UpdateStatementSegment"),
		g.R("DeleteStatementSegment"),
		g.R("CreateTableStatementSegment"),
		g.R("CreateViewStatementSegment"),
		g.R("CreateSchemaStatementSegment"),
		g.R("CreateFunctionStatementSegment"),
		g.R("DropStatementSegment"),
	)).
	Insert("SelectableGrammar", g.Any(
		g.R("WithCompoundStatementSegment"),
		g.R("NonWithSelectableGrammar"),
	)).
	Insert("NonWithSelectableGrammar", g.Any(
		g.R("SetExpressionSegment"),
		g.R("NonSetSelectableGrammar"),
	)).
	Insert("NonSetSelectableGrammar", g.Any(
		g.R("SelectStatementSegment"),
		g.R("ValuesClauseSegment"),
		g.Parens(g.R("SelectableGrammar")),
	)).
	Insert("WithCompoundStatementSegment", withCompound).
	Insert("CTEDefinitionSegment", cteDefinition).
	Insert("SetExpressionSegment", setExpression).
	Insert("SetOperatorSegment", setOperator).
	Insert("SelectStatementSegment", SelectStatement()).
	Insert("InsertStatementSegment", insertStatement).
	Insert("ValuesClauseSegment", valuesClause).
	Insert("UpdateStatementSegment", updateStatement).
	Insert("SetClauseSegment", setClause).
	Insert("DeleteStatementSegment", deleteStatement).
	Insert("CreateTableStatementSegment", createTable).
	Insert("ColumnDefinitionSegment", columnDefinition).
	Insert("ColumnConstraintSegment", columnConstraint).
	Insert("TableConstraintSegment", tableConstraint).
	Insert("ReferenceDefinitionGrammar", referenceDefinition).
	Insert("CreateViewStatementSegment", createView).
	Insert("CreateSchemaStatementSegment", createSchema).
	Insert("CreateFunctionStatementSegment", createFunction).
	Insert("FunctionParameterListGrammar", functionParameterList).
	Insert("DropStatementSegment", dropStatement).
	Insert("IfExistsGrammar", g.Kws("IF", "EXISTS")).
	Insert("IfNotExistsGrammar", g.Kws("IF", "NOT", "EXISTS")).
	Insert("OrReplaceGrammar", g.Kws("OR", "REPLACE")).
	Insert("TemporaryGrammar", g.AnyKw("TEMP", "TEMPORARY")).
	// Clauses
	Insert("SelectClauseSegment", selectClause).
	Insert("SelectClauseModifierSegment", g.AnyKw("DISTINCT", "ALL")).
	Insert("SelectClauseElementSegment", selectClauseElement).
	Insert("WildcardExpressionSegment", g.Seq(g.R("WildcardIdentifierSegment"))).
	Insert("WildcardIdentifierSegment", wildcardIdentifier).
	Insert("AliasExpressionSegment", aliasExpression).
	Insert("FromClauseSegment", fromClause).
	Insert("FromExpressionSegment", fromExpression).
	Insert("FromExpressionElementSegment", fromExpressionElement).
	Insert("TableExpressionSegment", tableExpression).
	Insert("JoinClauseSegment", joinClause).
	Insert("JoinTypeKeywordsGrammar", joinTypeKeywords).
	Insert("JoinOnConditionSegment", g.Seq(g.Kw("ON"), g.R("ExpressionSegment"))).
	Insert("JoinUsingConditionSegment", g.Seq(g.Kw("USING"), g.R("BracketedColumnListGrammar"))).
	Insert("BracketedColumnListGrammar", g.Parens(g.CSV(g.R("SingleIdentifierGrammar")))).
	Insert("WhereClauseSegment", g.Seq(g.Kw("WHERE"), g.R("ExpressionSegment"))).
	Insert("GroupByClauseSegment", groupByClause).
	Insert("GroupingExpressionGrammar", groupingExpression).
	Insert("CubeRollupClauseSegment", cubeRollup).
	Insert("GroupingSetsClauseSegment", groupingSets).
	Insert("HavingClauseSegment", g.Seq(g.Kw("HAVING"), g.R("ExpressionSegment"))).
	Insert("NamedWindowSegment", namedWindow).
	Insert("OrderByClauseSegment", orderByClause).
	Insert("OrderByItemGrammar", orderByItem).
	Insert("LimitClauseSegment", limitClause).
	Insert("OffsetClauseSegment", offsetClause).
	// Expressions
	Insert("ExpressionSegment", expression).
	Insert("ExpressionTailGrammar", expressionTail).
	Insert("OperandGrammar", operand).
	Insert("UnaryOperatorGrammar", unaryOperator).
	Insert("AccessorGrammar", g.Any(g.R("ArrayAccessorSegment"))).
	Insert("ArrayAccessorSegment", arrayAccessor).
	Insert("PrimaryGrammar", primary).
	Insert("BinaryOperatorGrammar", binaryOperator).
	Insert("IsExpressionGrammar", isExpression).
	Insert("InExpressionGrammar", inExpression).
	Insert("BetweenExpressionGrammar", betweenExpression).
	Insert("LikeExpressionGrammar", likeExpression).
	Insert("LikeOperatorGrammar", g.Any(g.Kw("LIKE"), g.Kws("SIMILAR", "TO"))).
	Insert("BracketedExpressionSegment", bracketedExpression).
	Insert("ExistsExpressionSegment", g.Seq(g.Kw("EXISTS"), g.Parens(g.R("SelectableGrammar")))).
	Insert("CaseExpressionSegment", caseExpression).
	Insert("WhenClauseSegment", whenClause).
	Insert("ElseClauseSegment", g.Seq(g.Kw("ELSE"), g.R("ExpressionSegment"))).
	Insert("CastExpressionSegment", castExpression).
	Insert("IntervalExpressionSegment", intervalExpression).
	Insert("DatetimeUnitGrammar", datetimeUnit).
	Insert("BareFunctionSegment", g.AnyKw("CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP")).
	Insert("FunctionSegment", function).
	Insert("FunctionNameSegment", functionName).
	Insert("FunctionContentsGrammar", functionContents).
	Insert("FunctionArgumentGrammar", g.Any(g.R("ExpressionSegment"))).
	Insert("FilterClauseSegment", filterClause).
	Insert("OverClauseSegment", overClause).
	Insert("WindowSpecificationSegment", windowSpecification).
	Insert("PartitionClauseSegment", partitionClause).
	Insert("FrameClauseSegment", frameClause).
	Insert("FrameBoundGrammar", frameBound).
	// References and literals
	Insert("SingleIdentifierGrammar", g.Any(
		g.Ident("naked_identifier"),
		g.Tok(token.QuotedIdent, "quoted_identifier"),
	)).
	Insert("ObjectReferenceGrammar", objectReference).
	Insert("TableReferenceSegment", g.R("ObjectReferenceGrammar")).
	Insert("ColumnReferenceSegment", g.R("ObjectReferenceGrammar")).
	Insert("LiteralGrammar", literal).
	Insert("NumericLiteralSegment", g.Tok(token.Number, "numeric_literal")).
	Insert("QuotedLiteralSegment", g.Tok(token.String, "quoted_literal")).
	Insert("BooleanLiteralSegment", g.AnyKw("TRUE", "FALSE")).
	Insert("NullLiteralSegment", g.Kw("NULL")).
	Insert("TypedLiteralSegment", typedLiteral).
	// Data types
	Insert("DatatypeSegment", datatype).
	Insert("BaseDatatypeGrammar", baseDatatype).
	Insert("DatatypeIdentifierSegment", g.Ident("data_type_identifier")).
	Insert("BracketedArgumentsSegment", bracketedArguments).
	Insert("ArrayTypeSuffixSegment", g.Square(g.Opt(g.R("NumericLiteralSegment")))).
	Build()
