package trade

import (
	"strconv"
	"strings"
)

// Filter narrows a trade listing. Empty fields are not applied; supplied
// fields are combined with AND.
type Filter struct {
	Commodity string
	TraderID  string
	Side      string
}

// Normalize lowercases commodity and side so they compare against the
// stored canonical form. TraderID is matched case-sensitively and is kept.
func (f Filter) Normalize() Filter {
	return Filter{
		Commodity: strings.ToLower(f.Commodity),
		TraderID:  f.TraderID,
		Side:      strings.ToLower(f.Side),
	}
}

// LimitRange bounds a limit parameter and supplies its default.
type LimitRange struct {
	Min, Max, Default int
}

func (r LimitRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

var (
	ListLimit      = LimitRange{Min: 1, Max: 1000, Default: 100}
	CommodityLimit = LimitRange{Min: 1, Max: 100, Default: 10}
	TraderLimit    = LimitRange{Min: 1, Max: 200, Default: 50}
)

// Page selects a window of an ordered listing.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage is the first page with the default list limit.
func DefaultPage() Page {
	return Page{Limit: ListLimit.Default}
}

// Validate checks the page against ListLimit and a non-negative offset.
func (p Page) Validate() error {
	if err := CheckLimit(p.Limit, ListLimit); err != nil {
		return err
	}
	if p.Offset < 0 {
		return invalid("offset", "must be 0 or greater")
	}
	return nil
}

// CheckLimit reports a *ValidationError when n is outside r.
func CheckLimit(n int, r LimitRange) error {
	if !r.Contains(n) {
		return invalid("limit", "must be between %d and %d", r.Min, r.Max)
	}
	return nil
}

// ParseLimit parses a query-string limit. An empty value yields r.Default.
func ParseLimit(raw string, r LimitRange) (int, error) {
	if raw == "" {
		return r.Default, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid("limit", "must be an integer")
	}
	if err := CheckLimit(n, r); err != nil {
		return 0, err
	}
	return n, nil
}

// ParseOffset parses a query-string offset. An empty value yields 0.
func ParseOffset(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid("offset", "must be an integer")
	}
	if n < 0 {
		return 0, invalid("offset", "must be 0 or greater")
	}
	return n, nil
}
