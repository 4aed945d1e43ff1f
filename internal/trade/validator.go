package trade

import (
	"math"
	"strings"
	"unicode/utf8"

	"energy-trading-platform/internal/models"
)

const (
	maxCommodityLen = 50
	maxTraderIDLen  = 100
)

// Candidate is a trade submission as decoded from a request.
// Numbers are pointers so that a missing field is not mistaken for zero.
type Candidate struct {
	Commodity string   `json:"commodity"`
	Price     *float64 `json:"price"`
	Quantity  *float64 `json:"quantity"`
	Side      string   `json:"side"`
	TraderID  string   `json:"trader_id"`
}

// ValidateAndNormalize checks every field of c and returns the trade ready
// for persistence, with the commodity lowercased. ID and Timestamp are left
// for the store to assign. The first failing field is reported as a
// *ValidationError.
func ValidateAndNormalize(c Candidate) (models.Trade, error) {
	commodity, err := validateCommodity(c.Commodity)
	if err != nil {
		return models.Trade{}, err
	}
	price, err := validatePositive("price", c.Price)
	if err != nil {
		return models.Trade{}, err
	}
	quantity, err := validatePositive("quantity", c.Quantity)
	if err != nil {
		return models.Trade{}, err
	}
	side, ok := ParseSide(c.Side)
	if !ok {
		return models.Trade{}, invalid("side", "must be %q or %q", Buy, Sell)
	}
	if err := ValidateTraderID(c.TraderID); err != nil {
		return models.Trade{}, err
	}

	return models.Trade{
		Commodity: commodity.String(),
		Price:     price,
		Quantity:  quantity,
		Side:      side.String(),
		TraderID:  c.TraderID,
	}, nil
}

func validateCommodity(raw string) (Commodity, error) {
	n := utf8.RuneCountInString(raw)
	if n == 0 || n > maxCommodityLen {
		return "", invalid("commodity", "must be 1 to %d characters", maxCommodityLen)
	}
	commodity, ok := ParseCommodity(raw)
	if !ok {
		return "", invalid("commodity", "must be one of: %s", commodityList())
	}
	return commodity, nil
}

func validatePositive(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, invalid(field, "is required")
	}
	// NaN compares false, so it is rejected here too.
	if !(*v > 0) || math.IsInf(*v, 1) {
		return 0, invalid(field, "must be a finite number greater than 0")
	}
	return *v, nil
}

// ValidateTraderID checks the 1 to 100 character [A-Za-z0-9_-] rule.
func ValidateTraderID(id string) error {
	if id == "" || len(id) > maxTraderIDLen {
		return invalid("trader_id", "must be 1 to %d characters", maxTraderIDLen)
	}
	for i := 0; i < len(id); i++ {
		if !isTraderIDByte(id[i]) {
			return invalid("trader_id", "may contain only letters, digits, underscores and hyphens")
		}
	}
	return nil
}

func isTraderIDByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-':
		return true
	}
	return false
}

func commodityList() string {
	names := make([]string, len(Commodities))
	for i, c := range Commodities {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
