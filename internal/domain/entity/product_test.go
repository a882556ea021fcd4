package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	for _, c := range Conditions() {
		parsed, err := ParseCondition(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCondition("Mint")
	assert.True(t, errors.Is(err, ErrInvalidCondition))
	assert.Len(t, Conditions(), 4)
}

func TestCondition_JSON(t *testing.T) {
	p := Product{ID: "prod2", Price: decimal.NewFromInt(2200), Condition: ConditionNew}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"condition":"New"`)

	var decoded Product
	require.NoError(t, json.Unmarshal([]byte(`{"condition":"Used - Fair"}`), &decoded))
	assert.Equal(t, ConditionUsedFair, decoded.Condition)

	err = json.Unmarshal([]byte(`{"condition":"Broken"}`), &decoded)
	assert.Error(t, err)
}

func TestCondition_ZeroValueIsInvalid(t *testing.T) {
	var c Condition
	assert.False(t, c.IsValid())
	_, err := json.Marshal(Product{Price: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestValidateOffer(t *testing.T) {
	price := decimal.RequireFromString("750.00")
	assert.Equal(t, "525.00", MinimumOffer(price).StringFixed(2))

	assert.NoError(t, ValidateOffer(price, decimal.RequireFromString("525")))
	assert.NoError(t, ValidateOffer(price, decimal.RequireFromString("700")))
	assert.True(t, errors.Is(ValidateOffer(price, decimal.RequireFromString("524.99")), ErrOfferTooLow))
	assert.True(t, errors.Is(ValidateOffer(price, decimal.Zero), ErrInvalidOffer))
}

func TestUser_MatchesCredential(t *testing.T) {
	u := User{ID: "user1", Email: "seller@example.com", PhoneNumber: "0821234567"}
	assert.True(t, u.MatchesCredential("seller@example.com"))
	assert.True(t, u.MatchesCredential("0821234567"))
	assert.False(t, u.MatchesCredential(""))
	assert.False(t, User{Email: "buyer@example.com"}.MatchesCredential("0821234567"))
}
