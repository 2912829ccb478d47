package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"inventory-catalog/internal/app"
	"inventory-catalog/internal/form"
	"inventory-catalog/internal/modal"
	"inventory-catalog/internal/models"
	"inventory-catalog/internal/search"
)

// kindCommands builds the subcommands every catalog kind shares.
type kindCommands[T models.Entity] struct {
	c      *cli
	screen func() *app.Screen[T]
	fields []string
	render func(c *cli, items []T)

	// withImage adds an --image flag to add and edit.
	withImage bool
}

func (k kindCommands[T]) list() *cobra.Command {
	var query string
	var caseSensitive bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch and print the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := k.screen().Store
			if err := st.Refresh(cmd.Context()); err != nil {
				return err
			}
			k.render(k.c, search.Filter(st.Items(), query, caseSensitive))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only show entries whose name contains this")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match --search case sensitively")
	return cmd
}

func (k kindCommands[T]) add() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an entry from the given fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := k.submit(cmd, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(k.c.out, "created %s %q\n", created.Identifier(), created.DisplayName())
			return nil
		},
	}
	k.fieldFlags(cmd)
	return cmd
}

func (k kindCommands[T]) edit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace an entry; fields not given keep their stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := k.find(cmd, args[0])
			if err != nil {
				return err
			}
			updated, err := k.submit(cmd, &seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(k.c.out, "updated %s %q\n", updated.Identifier(), updated.DisplayName())
			return nil
		},
	}
	k.fieldFlags(cmd)
	return cmd
}

func (k kindCommands[T]) remove() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := k.screen().Store.CommitDelete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(k.c.out, "deleted %s\n", args[0])
			return nil
		},
	}
}

func (k kindCommands[T]) fieldFlags(cmd *cobra.Command) {
	for _, f := range k.fields {
		cmd.Flags().String(f, "", f)
	}
	if k.withImage {
		cmd.Flags().String("image", "", "path of a picture to upload")
	}
}

// find refreshes the store and looks id up in it.
func (k kindCommands[T]) find(cmd *cobra.Command, id string) (T, error) {
	st := k.screen().Store
	if err := st.Refresh(cmd.Context()); err != nil {
		var zero T
		return zero, err
	}
	e, ok := st.Get(id)
	if !ok {
		return e, errors.Errorf("no %s with id %s", st.Kind(), id)
	}
	return e, nil
}

// submit runs one add or edit through the modal: open, fill the changed
// flags, submit. A failed submit leaves nothing open behind.
func (k kindCommands[T]) submit(cmd *cobra.Command, seed *T) (T, error) {
	m := k.screen().Modal
	m.Open(seed)
	s := m.Session()

	for _, f := range k.fields {
		if !cmd.Flags().Changed(f) {
			continue
		}
		v, _ := cmd.Flags().GetString(f)
		if err := s.Set(f, v); err != nil {
			m.Dismiss(modal.ReasonCancel)
			var zero T
			return zero, err
		}
	}
	if k.withImage && cmd.Flags().Changed("image") {
		p, _ := cmd.Flags().GetString("image")
		abs, err := filepath.Abs(p)
		if err != nil {
			m.Dismiss(modal.ReasonCancel)
			var zero T
			return zero, err
		}
		if err := s.SetImage(models.NewLocalImage(abs, filepath.Base(abs), "")); err != nil {
			m.Dismiss(modal.ReasonCancel)
			var zero T
			return zero, err
		}
	}

	result, err := m.Submit(cmd.Context())
	if err != nil {
		m.Dismiss(modal.ReasonCancel)
		return result, err
	}
	return result, nil
}

func newProductsCmd(c *cli) *cobra.Command {
	k := kindCommands[models.Product]{
		c:         c,
		screen:    func() *app.Screen[models.Product] { return c.app.Products },
		fields:    form.ProductSchema{}.Fields(),
		render:    printProducts,
		withImage: true,
	}
	cmd := &cobra.Command{Use: "products", Aliases: []string{"product", "p"}, Short: "Stocked products"}
	cmd.AddCommand(k.list(), k.add(), k.edit(), k.remove(), newStockCmd(c), newValueCmd(c), newExportCmd(c, models.KindProduct))
	return cmd
}

func newPriceListCmd(c *cli) *cobra.Command {
	k := kindCommands[models.PriceListProduct]{
		c:      c,
		screen: func() *app.Screen[models.PriceListProduct] { return c.app.PriceList },
		fields: form.PriceListSchema{}.Fields(),
		render: printPriceList,
	}
	cmd := &cobra.Command{Use: "price-list", Aliases: []string{"prices"}, Short: "Vendor price list"}
	cmd.AddCommand(k.list(), k.add(), k.edit(), k.remove(), newExportCmd(c, models.KindPriceList))
	return cmd
}

func newSoldCmd(c *cli) *cobra.Command {
	k := kindCommands[models.SoldProduct]{
		c:      c,
		screen: func() *app.Screen[models.SoldProduct] { return c.app.SoldProducts },
		fields: form.SoldProductSchema{}.Fields(),
		render: printSold,
	}
	cmd := &cobra.Command{Use: "sold", Aliases: []string{"sales"}, Short: "Recorded sales"}
	cmd.AddCommand(k.list(), k.add(), k.edit(), k.remove(), newExportCmd(c, models.KindSold))
	return cmd
}
