package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// ErrUnresolvedView is returned when a view definition is not a plain select
// from a single table.
var ErrUnresolvedView = errors.New("view source is not a single table")

// ViewSource is the table a view reads from and the source columns it selects.
// AllColumns is set for SELECT *.
type ViewSource struct {
	Table      string
	Columns    []string
	AllColumns bool
}

// Selects reports whether the view selects the named source column.
func (v ViewSource) Selects(column string) bool {
	if v.AllColumns {
		return true
	}
	for _, c := range v.Columns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

// ParseViewSource parses a stored view definition, either a bare SELECT or a
// full CREATE VIEW statement, and recovers its single source table.
func ParseViewSource(definition string) (ViewSource, error) {
	text := strings.TrimSpace(definition)
	text = strings.TrimSuffix(text, ";")

	p := parser.New()
	p.SetSQLMode(mysql.ModeANSIQuotes)
	stmt, err := p.ParseOneStmt(text, "", "")
	if err != nil {
		return ViewSource{}, fmt.Errorf("parse view definition: %w", err)
	}

	if cv, ok := stmt.(*ast.CreateViewStmt); ok {
		stmt = cv.Select
	}
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok || sel.From == nil || sel.From.TableRefs == nil {
		return ViewSource{}, ErrUnresolvedView
	}

	join := sel.From.TableRefs
	if join.Right != nil {
		return ViewSource{}, ErrUnresolvedView
	}
	ts, ok := join.Left.(*ast.TableSource)
	if !ok {
		return ViewSource{}, ErrUnresolvedView
	}
	tn, ok := ts.Source.(*ast.TableName)
	if !ok {
		return ViewSource{}, ErrUnresolvedView
	}

	src := ViewSource{Table: tn.Name.O}
	if sel.Fields == nil {
		return ViewSource{}, ErrUnresolvedView
	}
	for _, f := range sel.Fields.Fields {
		if f.WildCard != nil {
			src.AllColumns = true
			continue
		}
		if ref, ok := f.Expr.(*ast.ColumnNameExpr); ok {
			src.Columns = append(src.Columns, ref.Name.Name.O)
		}
	}
	if !src.AllColumns && len(src.Columns) == 0 {
		return ViewSource{}, ErrUnresolvedView
	}
	return src, nil
}
