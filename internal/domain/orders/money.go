package orders

import (
	"fmt"
	"strings"
)

// Money represents currency in minor units (centavos) to avoid float issues.
// Conversion to display currency happens only at render time.
type Money int64

// ToFloat2 returns the value in whole currency units (reais).
func (m Money) ToFloat2() float64 { return float64(m) / 100.0 }

// FormatBRL renders the amount as pt-BR currency, e.g. 123456 -> "R$ 1.234,56".
func (m Money) FormatBRL() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}

	whole := v / 100
	cents := v % 100

	// group the integer part with dots (pt-BR thousands separator)
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
		if len(digits) > pre {
			b.WriteByte('.')
		}
	}
	for i := pre; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), cents)
}
