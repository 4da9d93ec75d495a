package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func money(d decimal.Decimal, currency string) string {
	return strings.TrimSpace(d.StringFixed(2) + " " + currency)
}

func printCart(w io.Writer, c *domain.Cart) error {
	tw := newTabWriter(w)
	tw.writef("CODE\tNAME\tTYPE\tQTY\tPRICE\n")
	for i := range c.Items {
		it := &c.Items[i]
		tw.writef("%s\t%s\t%s\t%d\t%s\n", it.ItemCode, truncate(it.Name, 40), it.Type, it.Qty, money(it.TotalPrice, c.Currency))
	}
	tw.writef("\t\t\tTOTAL\t%s\n", money(c.Total, c.Currency))
	if c.Coupon != "" {
		tw.writef("\t\t\tCOUPON\t%s\n", c.Coupon)
	}
	return tw.finish()
}

func printItems(w io.Writer, items []domain.ParsedItem) error {
	tw := newTabWriter(w)
	tw.writef("CODE\tNAME\tPRICE\tWEIGHT\tCATEGORY\n")
	for i := range items {
		it := &items[i]
		code := it.ItemCode
		if it.IsCombination {
			code = "s" + code
		}
		tw.writef("%s\t%s\t%s\t%.2f kg\t%s\n",
			code,
			truncate(it.Name, 40),
			it.Price.StringFixed(2),
			it.Weight,
			it.CategoryName,
		)
	}
	return tw.finish()
}

func printSearchResults(w io.Writer, results []domain.SearchResult) error {
	tw := newTabWriter(w)
	tw.writef("CODE\tNAME\tTYPE\tPRICE\n")
	for i := range results {
		r := &results[i]
		tw.writef("%s\t%s\t%s\t%s\n", r.ItemCode, r.Name, truncate(r.Type, 30), money(r.Price, r.Currency))
	}
	return tw.finish()
}

func printDelivery(w io.Writer, d *domain.DeliveryServices) error {
	tw := newTabWriter(w)
	tw.writef("TYPE\tAVAILABLE\tDATE\tPRICE\tPROVIDER\tUNAVAILABLE\n")
	for i := range d.Delivery {
		s := &d.Delivery[i]
		unavailable := make([]string, 0, len(s.UnavailableItems))
		for _, u := range s.UnavailableItems {
			unavailable = append(unavailable, fmt.Sprintf("%s(%d)", u.ItemCode, u.AvailableQty))
		}
		tw.writef("%s\t%v\t%s\t%s\t%s\t%s\n",
			s.Type,
			s.IsAvailable,
			s.Date,
			s.Price.StringFixed(2),
			s.ServiceProvider,
			strings.Join(unavailable, ","),
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}
	if len(d.CannotAdd) > 0 {
		_, err := fmt.Fprintf(w, "\nCannot add: %s\n", strings.Join(d.CannotAdd, ", "))
		return err
	}
	return nil
}

func printPurchaseHistory(w io.Writer, items []domain.PurchaseHistoryItem) error {
	tw := newTabWriter(w)
	tw.writef("ORDER\tDATE\tSTATUS\tTOTAL\tSTORE\n")
	for i := range items {
		p := &items[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\n", p.ID, p.Date, p.Status, money(p.Price, p.Currency), p.Store)
	}
	return tw.finish()
}

func printPurchaseInfo(w io.Writer, p *domain.PurchaseInfo) error {
	tw := newTabWriter(w)
	tw.writef("Order:\t%s\n", p.ID)
	tw.writef("Status:\t%s\n", p.Status)
	tw.writef("Date:\t%s\n", p.Date)
	if p.DeliveryDate != "" {
		tw.writef("Delivery:\t%s\n", p.DeliveryDate)
	}
	tw.writef("Subtotal:\t%s\n", money(p.SubTotal, p.Currency))
	tw.writef("Delivery cost:\t%s\n", money(p.DeliveryCost, p.Currency))
	tw.writef("Total:\t%s\n", money(p.Total, p.Currency))
	for i := range p.Items {
		it := &p.Items[i]
		tw.writef("  %s\t%s x%d\t%s\n", it.ItemCode, truncate(it.Name, 40), it.Qty, money(it.TotalPrice, p.Currency))
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render writes v as JSON when --output=json and with table otherwise.
func render[T any](v T, table func(io.Writer, T) error) error {
	if jsonOutput() {
		return outputJSON(os.Stdout, v)
	}
	return table(os.Stdout, v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
