package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   \t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("0123456789"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("123a"))
	assert.False(t, IsNumeric("12 34"))
	assert.False(t, IsNumeric("-123"))
}

func TestIsValidDate(t *testing.T) {
	parsed, ok := IsValidDate("2024-01-31")
	assert.True(t, ok)
	assert.Equal(t, 2024, parsed.Year())

	_, ok = IsValidDate("31/01/2024")
	assert.False(t, ok)
	_, ok = IsValidDate("2024-02-30")
	assert.False(t, ok)
	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidNUBAN(t *testing.T) {
	assert.True(t, IsValidNUBAN("0123456789"))
	assert.False(t, IsValidNUBAN("012345678"), "nine digits")
	assert.False(t, IsValidNUBAN("01234567890"), "eleven digits")
	assert.False(t, IsValidNUBAN("012345678X"))
	assert.False(t, IsValidNUBAN(""))
}

func TestIsValidTIN(t *testing.T) {
	assert.True(t, IsValidTIN("12345678-0001"))
	assert.False(t, IsValidTIN("12345678"), "missing suffix")
	assert.False(t, IsValidTIN("1234567-0001"), "seven digit prefix")
	assert.False(t, IsValidTIN("12345678-001"), "three digit suffix")
	assert.False(t, IsValidTIN("12345678 0001"))
}

func TestIsValidComponentCode(t *testing.T) {
	assert.True(t, IsValidComponentCode("LOAN_REPAYMENT"))
	assert.True(t, IsValidComponentCode("13TH_MONTH"))
	assert.False(t, IsValidComponentCode("loan_repayment"), "lowercase")
	assert.False(t, IsValidComponentCode("_LOAN"), "leading underscore")
	assert.False(t, IsValidComponentCode("X"), "too short")
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "basic", Message: "must be non-negative"},
	}

	assert.Equal(t, "name: is required; basic: must be non-negative", errs.Error())
	assert.Equal(t, map[string]string{
		"name":  "is required",
		"basic": "must be non-negative",
	}, errs.ToMap())
}
