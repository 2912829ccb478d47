package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inventory-catalog/internal/stock"
)

func newStockCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stock <id> in|out <quantity>",
		Short: "Move units in or out of stock",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := stock.ParseDirection(args[1])
			if err != nil {
				return err
			}
			qty, err := stock.ParseAmount(args[2])
			if err != nil {
				return err
			}

			st := c.app.Products.Store
			if err := st.Refresh(cmd.Context()); err != nil {
				return err
			}
			p, ok := st.Get(args[0])
			if !ok {
				return fmt.Errorf("no product with id %s", args[0])
			}
			updated, err := stock.Adjust(cmd.Context(), st, p, dir, qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s: %d -> %d\n", updated.Name, p.Quantity, updated.Quantity)
			return nil
		},
	}
}

func newValueCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "value",
		Short: "Print the total value of everything in stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := c.app.Products.Store
			if err := st.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%d products, total value %s\n", st.Len(), stock.TotalValue(st.Items()).StringFixed(2))
			return nil
		},
	}
}
