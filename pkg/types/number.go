package types

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal accepts JSON numbers and numeric strings interchangeably. Mobile
// clients send price as "19.99" while web clients send 19.99; both decode to
// the same value.
type Decimal struct {
	decimal.Decimal
	set bool
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d, set: true}
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if raw == "" || raw == "null" {
		*d = Decimal{}
		return nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parsing decimal %q: %w", raw, err)
	}
	*d = Decimal{Decimal: parsed, set: true}
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return []byte(d.Decimal.String()), nil
}

// IsSet reports whether a value was present in the payload. A literal 0 is
// set; an absent or null field is not.
func (d Decimal) IsSet() bool {
	return d.set
}

// Int accepts JSON integers and integer strings interchangeably.
type Int struct {
	Value int
	set   bool
}

func NewInt(v int) Int {
	return Int{Value: v, set: true}
}

func (i *Int) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if raw == "" || raw == "null" {
		*i = Int{}
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parsing integer %q: %w", raw, err)
	}
	*i = Int{Value: parsed, set: true}
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(i.Value)), nil
}

func (i Int) IsSet() bool {
	return i.set
}
