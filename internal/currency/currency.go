// Package currency converts user-entered amounts to the canonical storage
// currency and renders stored amounts for display.
package currency

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "saveandplay/internal/errors"
)

// Code is an ISO 4217 currency code.
type Code string

const (
	USD Code = "USD"
	DOP Code = "DOP"
)

// DefaultRate is the number of DOP in one USD.
const DefaultRate = 59.0

var symbols = map[Code]string{
	USD: "$",
	DOP: "RD$",
}

// Supported reports whether code can be converted and formatted.
func Supported(code Code) bool {
	_, ok := symbols[code]
	return ok
}

// ParseCode normalizes s and checks that it is supported.
func ParseCode(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !Supported(code) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unsupported currency %q", s))
	}
	return code, nil
}

// Normalizer converts between the canonical currency and the others using
// fixed rates expressed as units of the other currency per canonical unit.
type Normalizer struct {
	canonical Code
	rates     map[Code]float64
	printer   *message.Printer
}

// NewNormalizer builds a Normalizer. Every non-canonical rate must be
// positive; the canonical currency always has rate 1.
func NewNormalizer(canonical Code, rates map[Code]float64) (*Normalizer, error) {
	if !Supported(canonical) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unsupported canonical currency %q", canonical))
	}
	n := &Normalizer{
		canonical: canonical,
		rates:     map[Code]float64{canonical: 1},
		printer:   message.NewPrinter(language.AmericanEnglish),
	}
	for code, rate := range rates {
		if code == canonical {
			continue
		}
		if !Supported(code) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unsupported currency %q", code))
		}
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("rate for %s must be positive", code))
		}
		n.rates[code] = rate
	}
	return n, nil
}

// Default stores USD and accepts DOP at DefaultRate.
func Default() *Normalizer {
	n, _ := NewNormalizer(USD, map[Code]float64{DOP: DefaultRate})
	return n
}

// Canonical returns the storage currency.
func (n *Normalizer) Canonical() Code { return n.canonical }

func (n *Normalizer) rate(code Code) (float64, error) {
	r, ok := n.rates[code]
	if !ok {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unsupported currency %q", code))
	}
	return r, nil
}

// ToCanonical converts a positive amount entered in from into the canonical
// currency. Full float precision is kept.
func (n *Normalizer) ToCanonical(amount float64, from Code) (float64, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	r, err := n.rate(from)
	if err != nil {
		return 0, err
	}
	return amount / r, nil
}

// ToDisplay converts a canonical amount into to.
func (n *Normalizer) ToDisplay(amount float64, to Code) (float64, error) {
	r, err := n.rate(to)
	if err != nil {
		return 0, err
	}
	return amount * r, nil
}

// Format converts a canonical amount into display and renders it with the
// currency symbol and en-US grouping, rounded half away from zero to cents.
// Unknown display currencies fall back to the canonical one.
func (n *Normalizer) Format(amount float64, display Code) string {
	converted, err := n.ToDisplay(amount, display)
	if err != nil {
		display = n.canonical
		converted = amount
	}
	return n.render(converted, display)
}

func (n *Normalizer) render(amount float64, code Code) string {
	rounded := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + symbols[code] + n.printer.Sprintf("%.2f", rounded.InexactFloat64())
}
