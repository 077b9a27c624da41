package decoder

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	lotSize       = 100
	tenThousand   = 10000
	timestampForm = "20060102150405"
)

type Rule int

const (
	RuleText Rule = iota
	RuleDecimal
	RuleScaledInt
	RuleScaledDecimal
	RuleOptionalDecimal
	RuleTimestamp
)

func (r Rule) String() string {
	switch r {
	case RuleText:
		return "text"
	case RuleDecimal:
		return "decimal"
	case RuleScaledInt:
		return "scaled-int"
	case RuleScaledDecimal:
		return "scaled-decimal"
	case RuleOptionalDecimal:
		return "optional-decimal"
	case RuleTimestamp:
		return "timestamp"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Field maps one token position to one Quote field. Build fields with the
// constructors below; the accessor set must match the rule.
type Field struct {
	Name  string
	Pos   int
	Rule  Rule
	Scale int64

	zeroAsNull bool

	text    func(*Quote) *string
	dec     func(*Quote) *decimal.Decimal
	nullDec func(*Quote) *decimal.NullDecimal
	integer func(*Quote) *int64
	ts      func(*Quote) *NullTime
}

func Text(name string, pos int, to func(*Quote) *string) Field {
	return Field{Name: name, Pos: pos, Rule: RuleText, text: to}
}

func Price(name string, pos int, to func(*Quote) *decimal.Decimal) Field {
	return Field{Name: name, Pos: pos, Rule: RuleDecimal, Scale: 1, dec: to}
}

// Volume reads an integer count of lots and stores it in shares.
func Volume(name string, pos int, to func(*Quote) *int64) Field {
	return Field{Name: name, Pos: pos, Rule: RuleScaledInt, Scale: lotSize, integer: to}
}

// Magnitude reads a decimal expressed in units of scale.
func Magnitude(name string, pos int, scale int64, to func(*Quote) *decimal.Decimal) Field {
	return Field{Name: name, Pos: pos, Rule: RuleScaledDecimal, Scale: scale, dec: to}
}

func OptionalDecimal(name string, pos int, to func(*Quote) *decimal.NullDecimal) Field {
	return Field{Name: name, Pos: pos, Rule: RuleOptionalDecimal, Scale: 1, nullDec: to}
}

func Timestamp(name string, pos int, to func(*Quote) *NullTime) Field {
	return Field{Name: name, Pos: pos, Rule: RuleTimestamp, ts: to}
}

// ZeroAsNull marks an optional decimal whose vendor value 0 means "no data".
func (f Field) ZeroAsNull() Field {
	f.zeroAsNull = true
	return f
}

// Optional reports whether a missing or malformed token leaves the quote valid.
func (f Field) Optional() bool {
	return f.Rule == RuleOptionalDecimal || f.Rule == RuleTimestamp
}

type Schema []Field

func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for i, f := range s {
		if f.Name == "" {
			return fmt.Errorf("field #%d: empty name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %s: duplicate name", f.Name)
		}
		seen[f.Name] = true
		if f.Pos < 0 {
			return fmt.Errorf("field %s: negative position %d", f.Name, f.Pos)
		}
		if err := f.validateTarget(); err != nil {
			return fmt.Errorf("field %s: %v", f.Name, err)
		}
		if f.zeroAsNull && f.Rule != RuleOptionalDecimal {
			return fmt.Errorf("field %s: zero-as-null needs an optional decimal, got %s", f.Name, f.Rule)
		}
	}
	return nil
}

func (f Field) validateTarget() error {
	var ok bool
	switch f.Rule {
	case RuleText:
		ok = f.text != nil
	case RuleDecimal:
		ok = f.dec != nil
	case RuleScaledInt:
		if f.Scale < 1 {
			return fmt.Errorf("scale %d < 1", f.Scale)
		}
		ok = f.integer != nil
	case RuleScaledDecimal:
		if f.Scale < 1 {
			return fmt.Errorf("scale %d < 1", f.Scale)
		}
		ok = f.dec != nil
	case RuleOptionalDecimal:
		ok = f.nullDec != nil
	case RuleTimestamp:
		ok = f.ts != nil
	default:
		return fmt.Errorf("unknown rule %s", f.Rule)
	}
	if !ok {
		return errors.New("no target for rule " + f.Rule.String())
	}
	return nil
}

// TencentSchema is the field table of the qt.gtimg.cn quote line.
func TencentSchema() Schema {
	s := Schema{
		Text("name", 1, func(q *Quote) *string { return &q.Name }),
		Price("now", 3, func(q *Quote) *decimal.Decimal { return &q.Now }),
		Price("close", 4, func(q *Quote) *decimal.Decimal { return &q.Close }),
		Price("open", 5, func(q *Quote) *decimal.Decimal { return &q.Open }),
		Volume("volume", 6, func(q *Quote) *int64 { return &q.Volume }),
		Volume("bid_volume", 7, func(q *Quote) *int64 { return &q.BidVolume }),
		Volume("ask_volume", 8, func(q *Quote) *int64 { return &q.AskVolume }),
	}
	for i := 0; i < BookDepth; i++ {
		i := i
		s = append(s,
			Price(fmt.Sprintf("bid%d", i+1), 9+2*i, func(q *Quote) *decimal.Decimal { return &q.Bids[i].Price }),
			Volume(fmt.Sprintf("bid%d_volume", i+1), 10+2*i, func(q *Quote) *int64 { return &q.Bids[i].Volume }),
		)
	}
	for i := 0; i < BookDepth; i++ {
		i := i
		s = append(s,
			Price(fmt.Sprintf("ask%d", i+1), 19+2*i, func(q *Quote) *decimal.Decimal { return &q.Asks[i].Price }),
			Volume(fmt.Sprintf("ask%d_volume", i+1), 20+2*i, func(q *Quote) *int64 { return &q.Asks[i].Volume }),
		)
	}
	return append(s,
		Timestamp("timestamp", 30, func(q *Quote) *NullTime { return &q.Timestamp }),
		Price("change_amount", 31, func(q *Quote) *decimal.Decimal { return &q.ChangeAmount }),
		Price("change_percent", 32, func(q *Quote) *decimal.Decimal { return &q.ChangePercent }),
		Price("high", 33, func(q *Quote) *decimal.Decimal { return &q.High }),
		Price("low", 34, func(q *Quote) *decimal.Decimal { return &q.Low }),
		Magnitude("total_value", 37, tenThousand, func(q *Quote) *decimal.Decimal { return &q.TotalValue }),
		OptionalDecimal("turnover_rate", 38, func(q *Quote) *decimal.NullDecimal { return &q.TurnoverRate }),
		OptionalDecimal("price_earnings", 39, func(q *Quote) *decimal.NullDecimal { return &q.PriceEarnings }).ZeroAsNull(),
		Price("amplitude", 43, func(q *Quote) *decimal.Decimal { return &q.Amplitude }),
		OptionalDecimal("traded_market_value", 44, func(q *Quote) *decimal.NullDecimal { return &q.TradedMarketValue }).ZeroAsNull(),
		OptionalDecimal("market_value", 45, func(q *Quote) *decimal.NullDecimal { return &q.MarketValue }).ZeroAsNull(),
		OptionalDecimal("price_book", 46, func(q *Quote) *decimal.NullDecimal { return &q.PriceBook }).ZeroAsNull(),
		Price("high_limit", 47, func(q *Quote) *decimal.Decimal { return &q.HighLimit }),
		Price("low_limit", 48, func(q *Quote) *decimal.Decimal { return &q.LowLimit }),
		OptionalDecimal("quantity_ratio", 49, func(q *Quote) *decimal.NullDecimal { return &q.QuantityRatio }),
		OptionalDecimal("order_imbalance", 50, func(q *Quote) *decimal.NullDecimal { return &q.OrderImbalance }),
		OptionalDecimal("average_price", 51, func(q *Quote) *decimal.NullDecimal { return &q.AveragePrice }),
	)
}
