// Package duckdb provides the DuckDB SQL dialect definition.
// It inherits PostgreSQL and adds star modifiers (EXCLUDE, REPLACE, RENAME
// and pattern matching), GROUP BY ALL and ORDER BY ALL, QUALIFY, PIVOT and
// UNPIVOT in both forms, lambdas, list comprehensions, nested types, macros
// and the DuckDB COPY options.
package duckdb

import (
	"github.com/leapstack-labs/leapparse/pkg/dialect"
	"github.com/leapstack-labs/leapparse/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapparse/pkg/dialects/postgres" // parent dialect
	g "github.com/leapstack-labs/leapparse/pkg/grammar"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect.
var DuckDB = dialect.NewDialect("duckdb").
	Parent("postgres").
	Symbols("//", "**", ":=", "=>").
	Reserve("QUALIFY", "PIVOT", "UNPIVOT").
	// Operators
	Extend("BinaryOperatorGrammar",
		g.NamedSym("//", "binary_operator"),
		g.NamedSym("**", "binary_operator"),
	).
	Extend("LikeOperatorGrammar", g.Kw("GLOB")).
	// Statements
	Extend("StatementSegment",
		g.R("SimplifiedPivotExpressionSegment"),
		g.R("SimplifiedUnpivotExpressionSegment"),
		g.R("FromUnpivotExpressionSegment"),
		g.R("DescribeStatementSegment"),
		g.R("PragmaStatementSegment"),
		g.R("InstallStatementSegment"),
		g.R("LoadStatementSegment"),
	).
	Replace("InsertStatementSegment", insertStatement).
	Replace("CreateTypeStatementSegment", createType).
	Replace("CreateFunctionStatementSegment", createMacro).
	Insert("MacroParameterGrammar", macroParameter).
	Insert("DescribeStatementSegment", describeStatement).
	Insert("PragmaStatementSegment", pragmaStatement).
	Insert("InstallStatementSegment", g.Seq(g.Opt(g.Kw("FORCE")), g.Kw("INSTALL"), g.R("SingleIdentifierGrammar"))).
	Insert("LoadStatementSegment", g.Seq(g.Kw("LOAD"), g.R("SingleIdentifierGrammar"))).
	// SELECT
	Replace("SelectStatementSegment", ansi.SelectStatement(g.R("QualifyClauseSegment"))).
	Insert("QualifyClauseSegment", g.Seq(g.Kw("QUALIFY"), g.R("ExpressionSegment"))).
	Replace("GroupByClauseSegment", groupByClause).
	Replace("OrderByClauseSegment", orderByClause).
	Replace("WildcardExpressionSegment", wildcardExpression).
	Insert("WildcardExcludeExpressionSegment", wildcardExclude).
	Insert("WildcardReplaceExpressionSegment", wildcardReplace).
	Insert("WildcardRenameExpressionSegment", wildcardRename).
	Insert("WildcardPatternMatchingSegment", wildcardPatternMatching).
	Replace("FromExpressionElementSegment", fromExpressionElement).
	// PIVOT and UNPIVOT
	Insert("FromPivotExpressionSegment", fromPivot).
	Insert("PivotForClauseSegment", pivotFor).
	Insert("PivotValueGrammar", pivotValue).
	Insert("UnpivotClauseSegment", unpivotClause).
	Insert("UnpivotNullsGrammar", g.Seq(g.AnyKw("INCLUDE", "EXCLUDE"), g.Kw("NULLS"))).
	Insert("FromUnpivotExpressionSegment", fromUnpivot).
	Insert("SimplifiedPivotExpressionSegment", simplifiedPivot).
	Insert("SimplifiedUnpivotExpressionSegment", simplifiedUnpivot).
	// Expressions
	Replace("FunctionArgumentGrammar", g.Any(
		g.R("LambdaExpressionSegment"),
		g.R("NamedArgumentSegment"),
		g.R("ExpressionSegment"),
	)).
	Insert("LambdaExpressionSegment", lambda).
	Insert("NamedArgumentSegment", namedArgument).
	Extend("PrimaryGrammar",
		g.R("ListComprehensionExpressionSegment"),
		g.R("ListLiteralSegment"),
		g.R("StructLiteralSegment"),
	).
	Insert("ListComprehensionExpressionSegment", listComprehension).
	Insert("ListLiteralSegment", g.Square(g.Opt(g.CSVTrailing(g.R("ExpressionSegment"))))).
	Insert("StructLiteralSegment", structLiteral).
	// Data types
	Extend("BaseDatatypeGrammar",
		g.R("StructTypeSegment"),
		g.R("MapTypeSegment"),
		g.R("UnionTypeSegment"),
	).
	Insert("StructTypeSegment", g.Seq(g.Kw("STRUCT"), g.R("TypedMemberListGrammar"))).
	Insert("UnionTypeSegment", g.Seq(g.Kw("UNION"), g.R("TypedMemberListGrammar"))).
	Insert("TypedMemberListGrammar", g.Parens(g.CSV(g.Seq(
		g.R("SingleIdentifierGrammar"),
		g.R("DatatypeSegment"),
	)))).
	Insert("MapTypeSegment", g.Seq(
		g.Kw("MAP"),
		g.Parens(g.Seq(g.R("DatatypeSegment"), g.Sym(","), g.R("DatatypeSegment"))),
	)).
	Build()
