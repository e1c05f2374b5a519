package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormDecimal is a decimal that accepts the loose numeric input of the closing form.
// null, "" and whitespace decode to zero; JSON numbers and numeric strings are both accepted.
type FormDecimal struct {
	decimal.Decimal
}

// NewFormDecimal wraps d.
func NewFormDecimal(d decimal.Decimal) FormDecimal {
	return FormDecimal{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *FormDecimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if s == "" {
		d.Decimal = decimal.Zero
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid number '%s': %w", s, err)
	}
	d.Decimal = v
	return nil
}
