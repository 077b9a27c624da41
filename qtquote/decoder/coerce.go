package decoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ParseDecimal parses a vendor decimal: '.' separator, optional leading '-',
// no thousands separators, no exponent.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	if err := plainNumber(raw); err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(raw)
}

func ParseScaledInt(raw string, scale int64) (int64, error) {
	if err := plainNumber(raw); err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt64/scale || v < math.MinInt64/scale {
		return 0, fmt.Errorf("%d x %d: %w", v, scale, strconv.ErrRange)
	}
	return v * scale, nil
}

func ParseScaledDecimal(raw string, scale int64) (decimal.Decimal, error) {
	v, err := ParseDecimal(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return v.Mul(decimal.NewFromInt(scale)), nil
}

// ParseTimestamp parses the fixed-width YYYYMMDDhhmmss form in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(timestampForm, raw, loc)
}

// plainNumber rejects the sign and exponent forms the vendor never writes.
func plainNumber(raw string) error {
	if strings.ContainsAny(raw, "+eE") {
		return fmt.Errorf("%q: %w", raw, ErrNumberFormat)
	}
	return nil
}

func token(tokens []string, pos int) (string, bool) {
	if pos >= len(tokens) {
		return "", false
	}
	return tokens[pos], true
}

// coerce decodes the token at f.Pos into q. Failures of optional fields are
// collected as diagnostics; failures of required fields are returned.
func (d *Decoder) coerce(f Field, tokens []string, q *Quote, c *collector) *FieldError {
	raw, ok := token(tokens, f.Pos)
	if !ok {
		if f.Optional() {
			c.add(logrus.InfoLevel, f.Name, fmt.Sprintf("no %s in data", f.Name))
			return nil
		}
		return &FieldError{Field: f.Name, Pos: f.Pos, Err: ErrFieldAbsent}
	}
	fail := func(err error) *FieldError {
		return &FieldError{Field: f.Name, Pos: f.Pos, Raw: raw, Err: err}
	}

	switch f.Rule {
	case RuleText:
		if raw == "" {
			return fail(ErrEmptyIdentity)
		}
		*f.text(q) = raw
	case RuleDecimal:
		v, err := ParseDecimal(raw)
		if err != nil {
			return fail(err)
		}
		*f.dec(q) = v
	case RuleScaledInt:
		v, err := ParseScaledInt(raw, f.Scale)
		if err != nil {
			return fail(err)
		}
		if v < 0 {
			return fail(ErrNegativeVolume)
		}
		*f.integer(q) = v
	case RuleScaledDecimal:
		v, err := ParseScaledDecimal(raw, f.Scale)
		if err != nil {
			return fail(err)
		}
		*f.dec(q) = v
	case RuleOptionalDecimal:
		v, err := ParseDecimal(raw)
		if err != nil {
			c.add(logrus.WarnLevel, f.Name, fmt.Sprintf("parse %s error: %v", f.Name, err))
			return nil
		}
		// vendor writes 0 for "no data"; not a parse failure, so no diagnostic
		if f.zeroAsNull && v.IsZero() {
			return nil
		}
		*f.nullDec(q) = decimal.NullDecimal{Decimal: v, Valid: true}
	case RuleTimestamp:
		t, err := ParseTimestamp(raw, d.location)
		if err != nil {
			c.add(logrus.WarnLevel, f.Name, fmt.Sprintf("parse %s error: %v", f.Name, err))
			return nil
		}
		*f.ts(q) = NullTime{Time: t, Valid: true}
	}
	return nil
}
