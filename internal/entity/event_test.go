package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_UnmarshalJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 99.90, "currency": "EUR"}`), &m))
	assert.Equal(t, "99.9", m.Amount.String())
	assert.Equal(t, "EUR", m.Currency)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "12.50"}`), &m))
	assert.Equal(t, "12.5", m.Amount.String())

	for _, raw := range []string{
		`{"amount": 1e400000000}`,
		`{"amount": "1e400000000"}`,
		`{"amount": 0.00000000000000000000000000001}`,
		`{"amount": 79228162514264337593543950336}`,
	} {
		assert.ErrorIs(t, json.Unmarshal([]byte(raw), &m), errAmountOutOfRange, raw)
	}
}

func TestWebhookPayload_RejectsOversizedAmount(t *testing.T) {
	var payload WebhookPayload
	err := json.Unmarshal([]byte(`{"event_type":"PRODUCT_UPDATED","product_id":"p1",
		"data":{"channels":[{"id":"moscow","price":{"amount":1e400000000}}]}}`), &payload)
	assert.Error(t, err)
}
