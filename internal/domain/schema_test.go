package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSet_MarshalJSON(t *testing.T) {
	rows := RowSet{
		Columns: []string{"flight_id", "price"},
		Records: []map[string]any{{"flight_id": 100001, "price": "12.50"}},
	}
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"flight_id":100001,"price":"12.50"}]`, string(data))

	data, err = json.Marshal(RowSet{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Equal(t, 0, RowSet{}.Len())
}
