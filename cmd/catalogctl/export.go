package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"inventory-catalog/internal/export"
	"inventory-catalog/internal/models"
)

func newExportCmd(c *cli, kind models.Kind) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := c.out
			if out != "" && out != "-" {
				f, err := c.fs.Create(out)
				if err != nil {
					return errors.Wrap(err, "create export file")
				}
				defer f.Close()
				w = f
			}
			return c.export(cmd, kind, w)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "file to write, - for stdout")
	return cmd
}

func (c *cli) export(cmd *cobra.Command, kind models.Kind, w io.Writer) error {
	ctx := cmd.Context()
	switch kind {
	case models.KindProduct:
		if err := c.app.Products.Store.Refresh(ctx); err != nil {
			return err
		}
		return export.Products(w, c.app.Products.Store.Items())
	case models.KindPriceList:
		if err := c.app.PriceList.Store.Refresh(ctx); err != nil {
			return err
		}
		return export.PriceList(w, c.app.PriceList.Store.Items())
	case models.KindSold:
		if err := c.app.SoldProducts.Store.Refresh(ctx); err != nil {
			return err
		}
		return export.SoldProducts(w, c.app.SoldProducts.Store.Items())
	}
	return errors.Errorf("cannot export %s", kind)
}
