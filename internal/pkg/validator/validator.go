package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// NUBAN validation (Nigerian Uniform Bank Account Number, 10 digits)
func IsValidNUBAN(accountNumber string) bool {
	return len(accountNumber) == 10 && IsNumeric(accountNumber)
}

// TIN validation (FIRS format: 8 digits, dash, 4 digit suffix)
var tinRegex = regexp.MustCompile(`^\d{8}-\d{4}$`)

func IsValidTIN(tin string) bool {
	return tinRegex.MatchString(tin)
}

// Component code validation: allowance/deduction codes are uppercase
// snake-case identifiers, e.g. "LOAN_REPAYMENT", "13TH_MONTH".
var componentCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_]{1,49}$`)

func IsValidComponentCode(code string) bool {
	return componentCodeRegex.MatchString(code)
}
