package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"inventory-catalog/internal/models"
)

func (c *cli) table(header string) *tabwriter.Writer {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	return w
}

func printProducts(c *cli, items []models.Product) {
	w := c.table("ID\tNAME\tMODEL\tPRICE\tSTOCK\tIMAGE")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Model, p.Price.StringFixed(2), p.Quantity, p.Image)
	}
	w.Flush()
}

func printPriceList(c *cli, items []models.PriceListProduct) {
	w := c.table("ID\tNAME\tTIER\tPRICE\tVENDOR")
	for _, p := range items {
		for i, t := range p.Tiers() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, i+1, t.Price.StringFixed(2), t.Vendor)
		}
	}
	w.Flush()
}

func printSold(c *cli, items []models.SoldProduct) {
	w := c.table("ID\tNAME\tMODEL\tPRICE\tCUSTOMER\tCONTACT\tSOLD")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Model, p.Price.StringFixed(2), p.CustomerName, p.CustomerContact, p.SoldAt.Local().Format(time.DateTime))
	}
	w.Flush()
}
