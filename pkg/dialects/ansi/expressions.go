package ansi

import (
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

// Expressions are flat: an operand followed by any number of binary operator
// or predicate tails. Precedence is left to consumers of the tree.
var expression = g.Seq(
	g.R("OperandGrammar"),
	g.Many(g.R("ExpressionTailGrammar")),
)

var expressionTail = g.Any(
	g.Seq(g.R("BinaryOperatorGrammar"), g.R("OperandGrammar")),
	g.R("IsExpressionGrammar"),
	g.R("InExpressionGrammar"),
	g.R("BetweenExpressionGrammar"),
	g.R("LikeExpressionGrammar"),
)

var operand = g.Seq(
	g.Many(g.R("UnaryOperatorGrammar")),
	g.R("PrimaryGrammar"),
	g.Many(g.R("AccessorGrammar")),
)

var unaryOperator = g.Any(
	g.NamedSym("-", "sign_indicator"),
	g.NamedSym("+", "sign_indicator"),
	g.NamedSym("~", "tilde"),
	g.Kw("NOT"),
)

var arrayAccessor = g.Square(g.Seq(
	g.Opt(g.R("ExpressionSegment")),
	g.OptSeq(g.NamedSym(":", "slice"), g.Opt(g.R("ExpressionSegment"))),
))

var primary = g.Any(
	g.R("LiteralGrammar"),
	g.R("BareFunctionSegment"),
	g.R("FunctionSegment"),
	g.R("CaseExpressionSegment"),
	g.R("CastExpressionSegment"),
	g.R("ExistsExpressionSegment"),
	g.R("IntervalExpressionSegment"),
	g.R("ColumnReferenceSegment"),
	g.R("BracketedExpressionSegment"),
)

var binaryOperator = g.Any(
	g.NamedSym("+", "binary_operator"),
	g.NamedSym("-", "binary_operator"),
	g.NamedSym("*", "binary_operator"),
	g.NamedSym("/", "binary_operator"),
	g.NamedSym("%", "binary_operator"),
	g.NamedSym("||", "binary_operator"),
	g.NamedSym("&", "binary_operator"),
	g.NamedSym("|", "binary_operator"),
	g.NamedSym("=", "comparison_operator"),
	g.NamedSym("<>", "comparison_operator"),
	g.NamedSym("!=", "comparison_operator"),
	g.NamedSym("<", "comparison_operator"),
	g.NamedSym(">", "comparison_operator"),
	g.NamedSym("<=", "comparison_operator"),
	g.NamedSym(">=", "comparison_operator"),
	g.Kw("AND"),
	g.Kw("OR"),
)

var isExpression = g.Seq(
	g.Kw("IS"),
	g.Opt(g.Kw("NOT")),
	g.Any(
		g.AnyKw("NULL", "TRUE", "FALSE", "UNKNOWN"),
		g.Seq(g.Kws("DISTINCT", "FROM"), g.R("OperandGrammar")),
	),
)

var inExpression = g.Seq(
	g.Opt(g.Kw("NOT")),
	g.Kw("IN"),
	g.Parens(g.Any(
		g.R("SelectableGrammar"),
		g.CSV(g.R("ExpressionSegment")),
	)),
)

// The bounds are operands so that BETWEEN's AND is not read as a conjunction.
var betweenExpression = g.Seq(
	g.Opt(g.Kw("NOT")),
	g.Kw("BETWEEN"),
	g.R("OperandGrammar"),
	g.Kw("AND"),
	g.R("OperandGrammar"),
)

var likeExpression = g.Seq(
	g.Opt(g.Kw("NOT")),
	g.R("LikeOperatorGrammar"),
	g.R("OperandGrammar"),
	g.OptSeq(g.Kw("ESCAPE"), g.R("QuotedLiteralSegment")),
)

var bracketedExpression = g.GreedyParens(g.Any(
	g.R("SelectableGrammar"),
	g.CSV(g.R("ExpressionSegment")),
))

var caseExpression = g.Seq(
	g.Kw("CASE"),
	g.Opt(g.R("ExpressionSegment")),
	g.AtLeast(1, g.R("WhenClauseSegment")),
	g.Opt(g.R("ElseClauseSegment")),
	g.Kw("END"),
)

var whenClause = g.Seq(
	g.Kw("WHEN"),
	g.R("ExpressionSegment"),
	g.Kw("THEN"),
	g.R("ExpressionSegment"),
)

var castExpression = g.Seq(
	g.Kw("CAST"),
	g.Parens(g.Seq(
		g.R("ExpressionSegment"),
		g.Kw("AS"),
		g.R("DatatypeSegment"),
	)),
)

var intervalExpression = g.Seq(
	g.Kw("INTERVAL"),
	g.Any(
		g.Seq(g.R("QuotedLiteralSegment"), g.Opt(g.R("DatetimeUnitGrammar"))),
		g.Seq(g.R("NumericLiteralSegment"), g.R("DatetimeUnitGrammar")),
	),
)

var datetimeUnit = g.AnyKw(
	"YEAR", "YEARS", "MONTH", "MONTHS", "WEEK", "WEEKS", "DAY", "DAYS",
	"HOUR", "HOURS", "MINUTE", "MINUTES", "SECOND", "SECONDS",
	"MILLISECOND", "MILLISECONDS", "MICROSECOND", "MICROSECONDS",
)

// ---------- Functions ----------

var function = g.Seq(
	g.R("FunctionNameSegment"),
	g.GreedyParens(g.Opt(g.R("FunctionContentsGrammar"))),
	g.Opt(g.R("FilterClauseSegment")),
	g.Opt(g.R("OverClauseSegment")),
)

// LEFT and RIGHT are reserved for joins but also name string functions.
var functionName = g.Any(
	g.Seq(
		g.Many(g.Seq(g.R("SingleIdentifierGrammar"), g.NamedSym(".", "dot"))),
		g.Ident("function_name_identifier"),
	),
	g.AnyKw("LEFT", "RIGHT"),
)

var functionContents = g.Any(
	g.NamedSym("*", "star"),
	g.Seq(
		g.Opt(g.AnyKw("DISTINCT", "ALL")),
		g.CSV(g.R("FunctionArgumentGrammar")),
		g.Opt(g.R("OrderByClauseSegment")),
	),
)

var filterClause = g.Seq(
	g.Kw("FILTER"),
	g.Parens(g.R("WhereClauseSegment")),
)

var overClause = g.Seq(
	g.Kw("OVER"),
	g.Any(
		g.R("WindowSpecificationSegment"),
		g.R("SingleIdentifierGrammar"),
	),
)

var windowClauses = g.Seq(
	g.Opt(g.R("PartitionClauseSegment")),
	g.Opt(g.R("OrderByClauseSegment")),
	g.Opt(g.R("FrameClauseSegment")),
)

// An optional base window name may precede the clauses.
var windowSpecification = g.Parens(g.Any(
	g.Seq(g.R("SingleIdentifierGrammar"), windowClauses),
	windowClauses,
))

var partitionClause = g.Seq(
	g.Kws("PARTITION", "BY"),
	g.CSV(g.R("ExpressionSegment")),
)

var frameClause = g.Seq(
	g.AnyKw("ROWS", "RANGE", "GROUPS"),
	g.Any(
		g.Seq(g.Kw("BETWEEN"), g.R("FrameBoundGrammar"), g.Kw("AND"), g.R("FrameBoundGrammar")),
		g.R("FrameBoundGrammar"),
	),
)

var frameBound = g.Any(
	g.Seq(g.Kw("UNBOUNDED"), g.AnyKw("PRECEDING", "FOLLOWING")),
	g.Kws("CURRENT", "ROW"),
	g.Seq(g.R("OperandGrammar"), g.AnyKw("PRECEDING", "FOLLOWING")),
)

// ---------- References and literals ----------

var objectReference = g.Seq(
	g.R("SingleIdentifierGrammar"),
	g.Many(g.Seq(g.NamedSym(".", "dot"), g.R("SingleIdentifierGrammar"))),
)

var literal = g.Any(
	g.R("NumericLiteralSegment"),
	g.R("QuotedLiteralSegment"),
	g.R("BooleanLiteralSegment"),
	g.R("NullLiteralSegment"),
	g.R("TypedLiteralSegment"),
)

var typedLiteral = g.Seq(
	g.AnyKw("DATE", "TIME", "TIMESTAMP"),
	g.R("QuotedLiteralSegment"),
)
