package generator

import (
	"sort"

	"github.com/Domenick1991/dummydata/internal/domain"
)

// Table is a table shape the generator knows how to fill.
type Table struct {
	Name    string
	Columns []string
	// Rows produces n rows positionally matching Columns.
	Rows func(n int) ([][]any, error)
}

type Registry struct {
	tables map[string]Table
}

func NewRegistry(tables ...Table) *Registry {
	r := &Registry{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		r.tables[t.Name] = t
	}
	return r
}

func (r *Registry) Lookup(name string) (Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const BookingsTable = "bookings"

func NewBookingsTable(g *BookingGenerator) Table {
	return Table{
		Name:    BookingsTable,
		Columns: domain.BookingColumns,
		Rows: func(n int) ([][]any, error) {
			bookings, err := g.Generate(n)
			if err != nil {
				return nil, err
			}
			rows := make([][]any, len(bookings))
			for i, b := range bookings {
				rows[i] = b.Row()
			}
			return rows, nil
		},
	}
}
