package pricing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCalculate_PreservesOrder(t *testing.T) {
	items := []BatchItem{
		{ProductID: "A", BasePrice: "100.00", MarkupPercent: "20"},
		{ProductID: "B", BasePrice: "50.00", MarkupPercent: "10"},
	}

	got, err := BatchCalculate(items)
	require.NoError(t, err)
	assert.Equal(t, []BatchResultItem{
		{ProductID: "A", FinalPrice: "120.00"},
		{ProductID: "B", FinalPrice: "55.00"},
	}, got)
}

func TestBatchCalculate_KeepsDuplicates(t *testing.T) {
	items := []BatchItem{
		{ProductID: "A", BasePrice: "10", MarkupPercent: "0"},
		{ProductID: "A", BasePrice: "20", MarkupPercent: "0"},
	}

	got, err := BatchCalculate(items)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10.00", got[0].FinalPrice)
	assert.Equal(t, "20.00", got[1].FinalPrice)
}

func TestBatchCalculate_Empty(t *testing.T) {
	got, err := BatchCalculate(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBatchCalculate_FailsFast(t *testing.T) {
	items := []BatchItem{
		{ProductID: "A", BasePrice: "100.00", MarkupPercent: "20"},
		{ProductID: "B", BasePrice: "abc", MarkupPercent: "10"},
		{ProductID: "C", BasePrice: "oops", MarkupPercent: "10"},
	}

	got, err := BatchCalculate(items)
	require.Error(t, err)
	assert.Nil(t, got)

	var ierr *ItemError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 1, ierr.Index)
	assert.Equal(t, "B", ierr.ProductID)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestBatchCalculateEach(t *testing.T) {
	items := []BatchItem{
		{ProductID: "A", BasePrice: "100.00", MarkupPercent: "20"},
		{ProductID: "B", BasePrice: "abc", MarkupPercent: "10"},
		{ProductID: "C", BasePrice: "50.00", MarkupPercent: "10"},
	}

	got := BatchCalculateEach(items)
	require.Len(t, got, 3)
	assert.Equal(t, "120.00", got[0].FinalPrice)
	assert.NoError(t, got[0].Err)
	assert.ErrorIs(t, got[1].Err, ErrParse)
	assert.Equal(t, "B", got[1].ProductID)
	assert.Equal(t, "55.00", got[2].FinalPrice)
	assert.NoError(t, got[2].Err)
}

func TestBatchCalculateRecords(t *testing.T) {
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(`[
		{"product_id": "A", "base_price": "100.00", "markup_percent": "20"},
		{"product_id": "B", "base_price": "50.00", "markup_percent": "10", "extra": true}
	]`), &records))

	got, err := BatchCalculateRecords(records)
	require.NoError(t, err)
	assert.Equal(t, []BatchResultItem{
		{ProductID: "A", FinalPrice: "120.00"},
		{ProductID: "B", FinalPrice: "55.00"},
	}, got)
}

func TestBatchCalculateRecords_MissingField(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		field  string
	}{
		{"product id", map[string]any{"base_price": "1", "markup_percent": "1"}, FieldProductID},
		{"base price", map[string]any{"product_id": "A", "markup_percent": "1"}, FieldBasePrice},
		{"markup", map[string]any{"product_id": "A", "base_price": "1"}, FieldMarkupPercent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []map[string]any{
				{"product_id": "ok", "base_price": "1", "markup_percent": "0"},
				tt.record,
			}
			got, err := BatchCalculateRecords(records)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrMissingField)

			var merr *MissingFieldError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.field, merr.Field)

			var ierr *ItemError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, 1, ierr.Index)
		})
	}
}

func TestBatchCalculateRecords_TypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		value any
		got   string
	}{
		{"number", 100.0, "number"},
		{"null", nil, "null"},
		{"bool", true, "bool"},
		{"object", map[string]any{}, "object"},
		{"array", []any{"1"}, "array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []map[string]any{
				{"product_id": "A", "base_price": tt.value, "markup_percent": "10"},
			}
			_, err := BatchCalculateRecords(records)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTypeMismatch)

			var terr *TypeMismatchError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, FieldBasePrice, terr.Field)
			assert.Equal(t, tt.got, terr.Got)

			var ierr *ItemError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, "A", ierr.ProductID)
		})
	}
}

func TestBatchCalculateRecords_MalformedDecimal(t *testing.T) {
	records := []map[string]any{
		{"product_id": "A", "base_price": "abc", "markup_percent": "10"},
	}
	_, err := BatchCalculateRecords(records)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "product A")
}

func TestBatchCalculateRecordsEach(t *testing.T) {
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(`[
		{"product_id": "A", "base_price": "100.00", "markup_percent": "20"},
		{"product_id": "B", "base_price": 50, "markup_percent": "10"},
		{"product_id": "C", "markup_percent": "10"},
		{"product_id": "D", "base_price": "50.00", "markup_percent": "10"}
	]`), &records))

	got := BatchCalculateRecordsEach(records)
	require.Len(t, got, 4)
	assert.Equal(t, BatchOutcome{ProductID: "A", FinalPrice: "120.00"}, got[0])
	assert.ErrorIs(t, got[1].Err, ErrTypeMismatch)
	assert.Equal(t, "B", got[1].ProductID)
	assert.ErrorIs(t, got[2].Err, ErrMissingField)
	assert.Equal(t, BatchOutcome{ProductID: "D", FinalPrice: "55.00"}, got[3])
}
