// Package trade holds the rules a trade must satisfy before it is stored
// and the parameters accepted by trade queries.
package trade

import "strings"

// Commodity is the traded energy type in its lowercase canonical form.
type Commodity string

const (
	Electricity Commodity = "electricity"
	Oil         Commodity = "oil"
	Gas         Commodity = "gas"
	NaturalGas  Commodity = "natural_gas"
	Coal        Commodity = "coal"
	Renewable   Commodity = "renewable"
)

// Commodities lists every accepted commodity.
var Commodities = []Commodity{Electricity, Oil, Gas, NaturalGas, Coal, Renewable}

func (c Commodity) String() string { return string(c) }

func (c Commodity) Valid() bool {
	switch c {
	case Electricity, Oil, Gas, NaturalGas, Coal, Renewable:
		return true
	default:
		return false
	}
}

// ParseCommodity case-folds s and reports whether it names a known commodity.
func ParseCommodity(s string) (Commodity, bool) {
	c := Commodity(strings.ToLower(s))
	return c, c.Valid()
}

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Sides lists both trade directions.
var Sides = []Side{Buy, Sell}

func (s Side) String() string { return string(s) }

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// ParseSide matches s exactly; "BUY" is not a side.
func ParseSide(s string) (Side, bool) {
	side := Side(s)
	return side, side.Valid()
}
