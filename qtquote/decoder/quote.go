package decoder

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BookDepth is the number of levels on each side of the order book.
const BookDepth = 5

type Level struct {
	Price  decimal.Decimal `json:"price"`
	Volume int64           `json:"volume"`
}

// Quote is one instrument's snapshot. Volumes are in shares and amounts in
// base currency units; the vendor's lot and ten-thousand units are already
// scaled out.
type Quote struct {
	Code string `json:"code"`
	Name string `json:"name"`

	Now       decimal.Decimal `json:"now"`
	Close     decimal.Decimal `json:"close"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	HighLimit decimal.Decimal `json:"high_limit"`
	LowLimit  decimal.Decimal `json:"low_limit"`

	Volume    int64 `json:"volume"`
	BidVolume int64 `json:"bid_volume"`
	AskVolume int64 `json:"ask_volume"`

	Bids [BookDepth]Level `json:"bids"`
	Asks [BookDepth]Level `json:"asks"`

	Timestamp NullTime `json:"timestamp"`

	ChangeAmount  decimal.Decimal `json:"change_amount"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Amplitude     decimal.Decimal `json:"amplitude"`
	TotalValue    decimal.Decimal `json:"total_value"`

	TurnoverRate      decimal.NullDecimal `json:"turnover_rate"`
	PriceEarnings     decimal.NullDecimal `json:"price_earnings"`
	PriceBook         decimal.NullDecimal `json:"price_book"`
	TradedMarketValue decimal.NullDecimal `json:"traded_market_value"`
	MarketValue       decimal.NullDecimal `json:"market_value"`
	QuantityRatio     decimal.NullDecimal `json:"quantity_ratio"`
	OrderImbalance    decimal.NullDecimal `json:"order_imbalance"`
	AveragePrice      decimal.NullDecimal `json:"average_price"`
}

// NullTime is a time that may be absent. It marshals to null when not Valid.
type NullTime struct {
	Time  time.Time
	Valid bool
}

func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time)
}

func (n *NullTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NullTime{}
		return nil
	}
	if err := json.Unmarshal(b, &n.Time); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Spread returns ask1 - bid1, or false when either side of the book is empty.
func (q Quote) Spread() (decimal.Decimal, bool) {
	bid, ask := q.Bids[0].Price, q.Asks[0].Price
	if bid.IsZero() || ask.IsZero() {
		return decimal.Zero, false
	}
	return ask.Sub(bid), true
}

func (q Quote) MidPrice() (decimal.Decimal, bool) {
	bid, ask := q.Bids[0].Price, q.Asks[0].Price
	if bid.IsZero() || ask.IsZero() {
		return decimal.Zero, false
	}
	return bid.Add(ask).Div(decimal.NewFromInt(2)), true
}
