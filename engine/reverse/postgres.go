package reverse

import (
	"fmt"
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	"github.com/restql-engine/restql/engine/ast"
)

// ============================================================================
// ENTRY POINT
// ============================================================================

// PostgreSQLToQuery converts a PostgreSQL SELECT to a query tree
func PostgreSQLToQuery(sql string) (*ast.QueryNode, error) {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseError, err)
	}
	if len(tree.Stmts) == 0 {
		return nil, fmt.Errorf("%w: no statements", ErrParseError)
	}
	if len(tree.Stmts) > 1 {
		return nil, fmt.Errorf("%w: multiple statements", ErrNotSupported)
	}

	stmt := tree.Stmts[0].Stmt
	sel := stmt.GetSelectStmt()
	if sel == nil {
		return nil, fmt.Errorf("%w: only SELECT converts", ErrNotSupported)
	}
	if sel.Op != pg_query.SetOperation_SETOP_NONE {
		return nil, fmt.Errorf("%w: set operations", ErrNotSupported)
	}

	return convertSelect(sel)
}

func convertSelect(sel *pg_query.SelectStmt) (*ast.QueryNode, error) {
	if len(sel.FromClause) != 1 {
		return nil, fmt.Errorf("%w: SELECT needs exactly one FROM source", ErrNotSupported)
	}

	base, err := baseTable(sel.FromClause[0])
	if err != nil {
		return nil, err
	}

	root := &ast.QueryNode{}

	for _, target := range sel.TargetList {
		res := target.GetResTarget()
		if res == nil || res.Val == nil {
			return nil, fmt.Errorf("%w: unsupported select target", ErrNotSupported)
		}
		if err := convertTarget(root, base, res); err != nil {
			return nil, err
		}
	}

	if sel.WhereClause != nil {
		if err := convertWhere(root, base, sel.WhereClause); err != nil {
			return nil, fmt.Errorf("WHERE: %w", err)
		}
	}

	if err := finalize(root); err != nil {
		return nil, err
	}
	return root, nil
}

// baseTable walks the FROM clause down the left side of any joins
func baseTable(node *pg_query.Node) (string, error) {
	if rv := node.GetRangeVar(); rv != nil {
		return rv.Relname, nil
	}
	if join := node.GetJoinExpr(); join != nil {
		return baseTable(join.Larg)
	}
	return "", fmt.Errorf("%w: unsupported FROM source", ErrNotSupported)
}

// ============================================================================
// PROJECTION
// ============================================================================

func convertTarget(root *ast.QueryNode, base string, res *pg_query.ResTarget) error {
	colref := res.Val.GetColumnRef()
	if colref == nil {
		return fmt.Errorf("%w: computed select expressions", ErrNotSupported)
	}

	var names []string
	star := false
	for _, f := range colref.Fields {
		switch {
		case f.GetString_() != nil:
			names = append(names, f.GetString_().Sval)
		case f.GetAStar() != nil:
			star = true
		default:
			return fmt.Errorf("%w: unsupported column reference", ErrNotSupported)
		}
	}

	switch {
	case star && len(names) == 0:
		addWildcard(root)
	case star && names[0] == base:
		addWildcard(root)
	case star:
		addWildcard(ensureRelation(root, relationName(names[0])))

	case len(names) == 1:
		addField(root, names[0], res.Name)
	case len(names) == 2 && names[0] == base:
		addField(root, names[1], res.Name)
	case len(names) == 2:
		rel := relationName(names[0])
		addField(ensureRelation(root, rel), names[1], innerAlias(res.Name, rel, names[1]))
	default:
		return fmt.Errorf("%w: column reference deeper than table.column", ErrNotSupported)
	}
	return nil
}

// innerAlias strips the "<relation>." prefix aliases get when generated, and
// drops the alias entirely when it just restates the column
func innerAlias(alias, relation, column string) string {
	if alias == "" {
		return ""
	}
	alias = strings.TrimPrefix(alias, relation+".")
	if alias == column {
		return ""
	}
	return alias
}

// ============================================================================
// CONDITIONS
// ============================================================================

func convertWhere(root *ast.QueryNode, base string, node *pg_query.Node) error {
	if be := node.GetBoolExpr(); be != nil {
		if be.Boolop != pg_query.BoolExprType_AND_EXPR {
			return fmt.Errorf("%w: only AND chains convert", ErrNotSupported)
		}
		for _, arg := range be.Args {
			if err := convertWhere(root, base, arg); err != nil {
				return err
			}
		}
		return nil
	}

	if nt := node.GetNullTest(); nt != nil {
		owner, column, err := conditionOwner(root, base, nt.Arg)
		if err != nil {
			return err
		}
		addArgument(owner, argumentKey(column, "isnull"),
			nt.Nulltesttype == pg_query.NullTestType_IS_NULL)
		return nil
	}

	if ae := node.GetAExpr(); ae != nil {
		return convertComparison(root, base, ae)
	}

	return fmt.Errorf("%w: unsupported condition", ErrNotSupported)
}

func convertComparison(root *ast.QueryNode, base string, ae *pg_query.A_Expr) error {
	if len(ae.Name) == 0 || ae.Name[0].GetString_() == nil {
		return fmt.Errorf("%w: unnamed operator", ErrNotSupported)
	}
	op := ae.Name[0].GetString_().Sval

	owner, column, err := conditionOwner(root, base, ae.Lexpr)
	if err != nil {
		return err
	}

	c := ae.Rexpr.GetAConst()
	if c == nil {
		return fmt.Errorf("%w: comparison against non-constant", ErrNotSupported)
	}
	value := constValue(c)

	switch op {
	case "~~", "~~*":
		pattern, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: LIKE against non-string", ErrNotSupported)
		}
		lookup, stripped, err := likeLookup(pattern, op == "~~*")
		if err != nil {
			return err
		}
		addArgument(owner, argumentKey(column, lookup), stripped)
		return nil
	}

	suffix, ok := lookupSuffix[op]
	if !ok {
		return fmt.Errorf("%w: operator '%s'", ErrNotSupported, op)
	}
	addArgument(owner, argumentKey(column, suffix), value)
	return nil
}

// conditionOwner resolves a condition column to the query node holding its
// argument: the root for base-table columns, a relation subtree otherwise
func conditionOwner(root *ast.QueryNode, base string, node *pg_query.Node) (*ast.QueryNode, string, error) {
	colref := node.GetColumnRef()
	if colref == nil {
		return nil, "", fmt.Errorf("%w: condition on non-column", ErrNotSupported)
	}

	var names []string
	for _, f := range colref.Fields {
		if f.GetString_() == nil {
			return nil, "", fmt.Errorf("%w: unsupported column reference", ErrNotSupported)
		}
		names = append(names, f.GetString_().Sval)
	}

	switch {
	case len(names) == 1:
		return root, names[0], nil
	case len(names) == 2 && names[0] == base:
		return root, names[1], nil
	case len(names) == 2:
		return ensureRelation(root, relationName(names[0])), names[1], nil
	}
	return nil, "", fmt.Errorf("%w: column reference deeper than table.column", ErrNotSupported)
}

func constValue(c *pg_query.A_Const) any {
	if c.Isnull {
		return nil
	}
	switch {
	case c.GetIval() != nil:
		return int64(c.GetIval().Ival)
	case c.GetFval() != nil:
		f, err := strconv.ParseFloat(c.GetFval().Fval, 64)
		if err != nil {
			return c.GetFval().Fval
		}
		return f
	case c.GetBoolval() != nil:
		return c.GetBoolval().Boolval
	case c.GetSval() != nil:
		return c.GetSval().Sval
	}
	return int64(0)
}
