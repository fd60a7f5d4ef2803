package fund

import (
	"fmt"
	"math/big"
	"strings"
)

// ZeroAmount is the safe default returned by every read before the
// client is initialized or when a call fails.
const ZeroAmount = "0.00"

var (
	hundred = big.NewInt(100)
	two     = big.NewInt(2)
)

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// FormatUnits converts a raw integer token amount into a decimal
// string with two places, rounding half away from zero. big.Int
// arithmetic throughout: 1e24-scale fund values do not fit a float64
// without losing the cents.
func FormatUnits(raw *big.Int, decimals int) string {
	if raw == nil {
		return ZeroAmount
	}
	neg := raw.Sign() < 0
	abs := new(big.Int).Abs(raw)
	scale := pow10(decimals)
	half := new(big.Int).Div(scale, two)

	cents := new(big.Int).Mul(abs, hundred)
	cents.Add(cents, half)
	cents.Div(cents, scale)

	whole := new(big.Int).Div(cents, hundred)
	frac := new(big.Int).Mod(cents, hundred)
	s := fmt.Sprintf("%s.%02d", whole.String(), frac.Int64())
	if neg && cents.Sign() != 0 {
		s = "-" + s
	}
	return s
}

// ParseUnits converts a human-entered decimal amount into the token's
// raw integer representation. Digits beyond the token's precision are
// truncated toward zero, never rounded up.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(amount, "-") {
		neg = true
		amount = amount[1:]
	}

	intPart, fracPart, _ := strings.Cut(amount, ".")
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid amount %q", amount)
		}
	}
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	raw, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if neg {
		raw.Neg(raw)
	}
	return raw, nil
}
