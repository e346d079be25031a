package domain

import "encoding/json"

// Column describes one reflected column of a table or view.
type Column struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Primary       bool    `json:"primary"`
	Comment       *string `json:"comment"`
	Default       *string `json:"default"`
	Nullable      bool    `json:"nullable"`
	AutoIncrement bool    `json:"autoincrement"`
}

// GenerationResult is what one generate call did to one table.
type GenerationResult struct {
	Table    string `json:"table"`
	Inserted int    `json:"inserted"`
	Mode     Mode   `json:"mode"`
}

// Relation is a table or view together with its columns. Source is set for
// views and names the table the columns were taken from.
type Relation struct {
	Name    string   `json:"name"`
	Source  string   `json:"source,omitempty"`
	Columns []Column `json:"columns"`
}

// RowSet is the content of a table. Columns keeps the table's column order,
// which the records, being maps, do not. It encodes as the JSON array of its
// records.
type RowSet struct {
	Columns []string
	Records []map[string]any
}

func (r RowSet) Len() int {
	return len(r.Records)
}

func (r RowSet) MarshalJSON() ([]byte, error) {
	if r.Records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Records)
}
