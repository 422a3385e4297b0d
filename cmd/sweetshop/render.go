package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"sweet-shop/models"
)

func stockLabel(s models.Sweet) string {
	switch {
	case !s.InStock():
		return "out of stock"
	case s.LowStock():
		return fmt.Sprintf("%d (low)", s.Quantity)
	default:
		return fmt.Sprint(s.Quantity)
	}
}

func renderSweets(out io.Writer, sweets []models.Sweet) {
	if len(sweets) == 0 {
		fmt.Fprintln(out, "No sweets found. Try adjusting your search or filter criteria.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, s := range sweets {
		fmt.Fprintf(tw, "%.8s\t%s\t%s\t$%s\t%s\n", s.ID, s.Name, s.Category, s.Price.StringFixed(2), stockLabel(s))
	}
	tw.Flush()
}

func renderCart(out io.Writer, lines []models.CartLine, total decimal.Decimal, count int) {
	if len(lines) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEACH\tQTY\tSUBTOTAL")
	for _, l := range lines {
		qty := fmt.Sprint(l.Quantity)
		if l.Committed > 0 {
			qty = fmt.Sprintf("%d (%d bought)", l.Quantity, l.Committed)
		}
		fmt.Fprintf(tw, "%.8s\t%s\t$%s\t%s\t$%s\n", l.Sweet.ID, l.Sweet.Name, l.Sweet.Price.StringFixed(2), qty, l.Subtotal().StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(out, "Total: $%s (%d items)\n", total.StringFixed(2), count)
}
