package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string          `validate:"required"`
	Quantity decimal.Decimal `validate:"gt=0"`
}

func TestValidateStructPasses(t *testing.T) {
	errs := ValidateStruct(&sample{Name: "Bolt", Quantity: decimal.NewFromInt(3)})
	assert.Empty(t, errs)
}

func TestValidateStructReportsFields(t *testing.T) {
	errs := ValidateStruct(&sample{Quantity: decimal.NewFromInt(-1)})
	require.Len(t, errs, 2)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "required", tags["Name"])
	assert.Equal(t, "gt", tags["Quantity"])
}

type priced struct {
	Quantity decimal.Decimal `validate:"gt=0,scale=2"`
}

func TestScaleLimitsFractionalDigits(t *testing.T) {
	for _, ok := range []string{"1", "1.5", "0.25", "1.500", "12345.67"} {
		assert.Empty(t, ValidateStruct(&priced{Quantity: decimal.RequireFromString(ok)}), ok)
	}
	for _, bad := range []string{"0.004", "1.333", "0.001"} {
		errs := ValidateStruct(&priced{Quantity: decimal.RequireFromString(bad)})
		require.Len(t, errs, 1, bad)
		assert.Equal(t, "scale", errs[0].Tag, bad)
		assert.Equal(t, "Quantity", errs[0].FailedField)
	}
}

func TestHasScale(t *testing.T) {
	assert.True(t, HasScale(decimal.RequireFromString("2.10"), 1))
	assert.False(t, HasScale(decimal.RequireFromString("2.11"), 1))
	assert.True(t, HasScale(decimal.NewFromInt(-7), 0))
}
