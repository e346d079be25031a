package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Domenick1991/dummydata/internal/domain"
)

func printColumns(out io.Writer, cols []domain.Column) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tPRIMARY\tNULLABLE\tDEFAULT\tAUTOINCREMENT\tCOMMENT")
	for _, col := range cols {
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\t%t\t%s\n",
			col.Name, col.Type, col.Primary, col.Nullable, orNone(col.Default), col.AutoIncrement, orNone(col.Comment))
	}
	w.Flush()
}

// printRows prints rows as a table with the columns in table order.
func printRows(out io.Writer, rows domain.RowSet) {
	if rows.Len() == 0 {
		fmt.Fprintln(out, "(no rows)")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(rows.Columns, "\t"))
	for _, row := range rows.Records {
		cells := make([]string, len(rows.Columns))
		for i, k := range rows.Columns {
			if row[k] == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprint(row[k])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	fmt.Fprintf(out, "%d rows\n", rows.Len())
}

func orNone(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
