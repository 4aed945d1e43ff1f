package seed

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"energy-trading-platform/internal/trade"
	"github.com/olekukonko/tablewriter"
)

// Row is the trade count of one group.
type Row struct {
	Name  string
	Count int64
}

// Summary is the content of a target broken down by commodity, side and
// the sample traders. Groups with no trades are omitted, except sides.
type Summary struct {
	Total       int64
	ByCommodity []Row
	BySide      []Row
	ByTrader    []Row
}

// Summarize counts the trades held by target.
func Summarize(ctx context.Context, target Target) (Summary, error) {
	var s Summary
	var err error

	if s.Total, err = target.Count(ctx, trade.Filter{}); err != nil {
		return Summary{}, fmt.Errorf("failed to count trades: %w", err)
	}

	for _, c := range trade.Commodities {
		n, err := target.Count(ctx, trade.Filter{Commodity: c.String()})
		if err != nil {
			return Summary{}, fmt.Errorf("failed to count %s trades: %w", c, err)
		}
		if n > 0 {
			s.ByCommodity = append(s.ByCommodity, Row{Name: c.String(), Count: n})
		}
	}

	for _, side := range trade.Sides {
		n, err := target.Count(ctx, trade.Filter{Side: side.String()})
		if err != nil {
			return Summary{}, fmt.Errorf("failed to count %s trades: %w", side, err)
		}
		s.BySide = append(s.BySide, Row{Name: side.String(), Count: n})
	}

	for _, id := range Traders {
		n, err := target.Count(ctx, trade.Filter{TraderID: id})
		if err != nil {
			return Summary{}, fmt.Errorf("failed to count trades of %s: %w", id, err)
		}
		if n > 0 {
			s.ByTrader = append(s.ByTrader, Row{Name: id, Count: n})
		}
	}

	return s, nil
}

// Render prints one table per group.
func Render(w io.Writer, s Summary) {
	printRows(w, "commodity", s.ByCommodity, s.Total)
	printRows(w, "side", s.BySide, s.Total)
	printRows(w, "trader", s.ByTrader, s.Total)
}

func printRows(w io.Writer, title string, rows []Row, total int64) {
	writer := tablewriter.NewWriter(w)
	writer.SetHeader([]string{title, "trades"})
	for _, r := range rows {
		writer.Append([]string{r.Name, strconv.FormatInt(r.Count, 10)})
	}
	writer.SetFooter([]string{"total", strconv.FormatInt(total, 10)})
	writer.SetCaption(true, "trades by "+title)
	writer.Render()
}
