package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFigure_Int(t *testing.T) {
	tests := []struct {
		in   Figure
		want int64
	}{
		{"10", 10},
		{" 42 ", 42},
		{"-3", -3},
		{"", 0},
		{"abc", 0},
		{"12.5", 0}, // figures are integers; fractions are upstream bugs
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Int(), "%q", tt.in)
	}
}

func TestFigure_UnmarshalMixedTypes(t *testing.T) {
	var rows []CategorySales
	payload := `[
		{"id": 1, "total_sold": "125000"},
		{"id": 2, "total_sold": 125000},
		{"id": 3, "total_sold": null}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &rows))

	assert.Equal(t, int64(125000), rows[0].TotalSold.Int())
	assert.Equal(t, int64(125000), rows[1].TotalSold.Int())
	assert.Equal(t, int64(0), rows[2].TotalSold.Int())
}

func TestOrder_IsGetTriState(t *testing.T) {
	var got Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"status":"Delivered","isGet":null}`), &got))
	assert.Nil(t, got.IsGet)

	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"status":"Delivered","isGet":1}`), &got))
	require.NotNil(t, got.IsGet)
	assert.Equal(t, 1, *got.IsGet)

	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"status":"Delivered","isGet":0}`), &got))
	require.NotNil(t, got.IsGet)
	assert.Equal(t, 0, *got.IsGet)
}
