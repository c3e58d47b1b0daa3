package reverse

import (
	"fmt"
	"strconv"

	"github.com/pingcap/tidb/parser"
	tidbast "github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/parser/test_driver"

	"github.com/restql-engine/restql/engine/ast"
)

// ============================================================================
// ENTRY POINT
// ============================================================================

// MySQLToQuery converts a MySQL SELECT to a query tree
func MySQLToQuery(sql string) (*ast.QueryNode, error) {
	p := parser.New()
	stmts, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseError, err)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("%w: empty statement", ErrParseError)
	}
	if len(stmts) > 1 {
		return nil, fmt.Errorf("%w: multiple statements", ErrNotSupported)
	}

	sel, ok := stmts[0].(*tidbast.SelectStmt)
	if !ok {
		return nil, fmt.Errorf("%w: only SELECT converts, got %T", ErrNotSupported, stmts[0])
	}
	return convertMySQLSelect(sel)
}

func convertMySQLSelect(sel *tidbast.SelectStmt) (*ast.QueryNode, error) {
	if sel.From == nil {
		return nil, fmt.Errorf("%w: SELECT without FROM", ErrNotSupported)
	}

	base := mysqlBaseTable(sel.From.TableRefs)
	if base == "" {
		return nil, fmt.Errorf("%w: unsupported FROM source", ErrNotSupported)
	}

	root := &ast.QueryNode{}

	if sel.Fields == nil || len(sel.Fields.Fields) == 0 {
		return nil, fmt.Errorf("%w: no select fields", ErrNotSupported)
	}
	for _, f := range sel.Fields.Fields {
		if err := convertMySQLField(root, base, f); err != nil {
			return nil, err
		}
	}

	if sel.Where != nil {
		if err := convertMySQLWhere(root, base, sel.Where); err != nil {
			return nil, fmt.Errorf("WHERE: %w", err)
		}
	}

	if err := finalize(root); err != nil {
		return nil, err
	}
	return root, nil
}

// mysqlBaseTable walks the FROM clause down the left side of any joins
func mysqlBaseTable(refs *tidbast.Join) string {
	if refs == nil {
		return ""
	}
	switch left := refs.Left.(type) {
	case *tidbast.TableSource:
		if tn, ok := left.Source.(*tidbast.TableName); ok {
			return tn.Name.O
		}
	case *tidbast.Join:
		return mysqlBaseTable(left)
	}
	return ""
}

// ============================================================================
// PROJECTION
// ============================================================================

func convertMySQLField(root *ast.QueryNode, base string, f *tidbast.SelectField) error {
	if f.WildCard != nil {
		table := f.WildCard.Table.O
		switch {
		case table == "" || table == base:
			addWildcard(root)
		default:
			addWildcard(ensureRelation(root, relationName(table)))
		}
		return nil
	}

	col, ok := f.Expr.(*tidbast.ColumnNameExpr)
	if !ok {
		return fmt.Errorf("%w: computed select expressions", ErrNotSupported)
	}

	table := col.Name.Table.O
	name := col.Name.Name.O
	alias := f.AsName.O

	switch {
	case table == "" || table == base:
		addField(root, name, alias)
	default:
		rel := relationName(table)
		addField(ensureRelation(root, rel), name, innerAlias(alias, rel, name))
	}
	return nil
}

// ============================================================================
// CONDITIONS
// ============================================================================

func convertMySQLWhere(root *ast.QueryNode, base string, expr tidbast.ExprNode) error {
	switch e := expr.(type) {
	case *tidbast.BinaryOperationExpr:
		if e.Op == opcode.LogicAnd {
			if err := convertMySQLWhere(root, base, e.L); err != nil {
				return err
			}
			return convertMySQLWhere(root, base, e.R)
		}
		return convertMySQLComparison(root, base, e)

	case *tidbast.IsNullExpr:
		owner, column, err := mysqlConditionOwner(root, base, e.Expr)
		if err != nil {
			return err
		}
		addArgument(owner, argumentKey(column, "isnull"), !e.Not)
		return nil

	case *tidbast.PatternLikeOrIlikeExpr:
		if e.Not {
			return fmt.Errorf("%w: NOT LIKE", ErrNotSupported)
		}
		owner, column, err := mysqlConditionOwner(root, base, e.Expr)
		if err != nil {
			return err
		}
		val, ok := e.Pattern.(*test_driver.ValueExpr)
		if !ok || val.Kind() != test_driver.KindString {
			return fmt.Errorf("%w: LIKE against non-string", ErrNotSupported)
		}
		lookup, stripped, err := likeLookup(val.GetString(), false)
		if err != nil {
			return err
		}
		addArgument(owner, argumentKey(column, lookup), stripped)
		return nil
	}

	return fmt.Errorf("%w: unsupported condition %T", ErrNotSupported, expr)
}

func convertMySQLComparison(root *ast.QueryNode, base string, e *tidbast.BinaryOperationExpr) error {
	var suffix string
	switch e.Op {
	case opcode.EQ:
		suffix = ""
	case opcode.NE:
		suffix = "ne"
	case opcode.GT:
		suffix = "gt"
	case opcode.GE:
		suffix = "gte"
	case opcode.LT:
		suffix = "lt"
	case opcode.LE:
		suffix = "lte"
	default:
		return fmt.Errorf("%w: operator %s", ErrNotSupported, e.Op.String())
	}

	owner, column, err := mysqlConditionOwner(root, base, e.L)
	if err != nil {
		return err
	}

	val, ok := e.R.(*test_driver.ValueExpr)
	if !ok {
		return fmt.Errorf("%w: comparison against non-constant", ErrNotSupported)
	}
	value, err := mysqlValue(val)
	if err != nil {
		return err
	}

	addArgument(owner, argumentKey(column, suffix), value)
	return nil
}

// mysqlConditionOwner resolves a condition column to the query node holding
// its argument: the root for base-table columns, a relation subtree otherwise
func mysqlConditionOwner(root *ast.QueryNode, base string, expr tidbast.ExprNode) (*ast.QueryNode, string, error) {
	col, ok := expr.(*tidbast.ColumnNameExpr)
	if !ok {
		return nil, "", fmt.Errorf("%w: condition on non-column", ErrNotSupported)
	}

	table := col.Name.Table.O
	name := col.Name.Name.O
	if table == "" || table == base {
		return root, name, nil
	}
	return ensureRelation(root, relationName(table)), name, nil
}

func mysqlValue(val *test_driver.ValueExpr) (any, error) {
	switch val.Kind() {
	case test_driver.KindNull:
		return nil, nil
	case test_driver.KindInt64:
		return val.GetInt64(), nil
	case test_driver.KindUint64:
		return int64(val.GetUint64()), nil
	case test_driver.KindFloat32, test_driver.KindFloat64:
		return val.GetFloat64(), nil
	case test_driver.KindString, test_driver.KindBytes:
		return val.GetString(), nil
	case test_driver.KindMysqlDecimal:
		// Decimal literals like 4.5 arrive as decimals, not floats
		f, err := strconv.ParseFloat(val.GetMysqlDecimal().String(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: decimal literal", ErrNotSupported)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: literal kind %d", ErrNotSupported, val.Kind())
}
