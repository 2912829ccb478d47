package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"inventory-catalog/internal/models"
	"inventory-catalog/internal/store"
)

func newWatchCmd(c *cli) *cobra.Command {
	var spec string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh every kind on a schedule and print what changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if spec != "" {
				c.cfg.RefreshSpec = spec
			}
			printChange := func(ch store.Change) {
				switch ch.Op {
				case store.OpRefresh:
					fmt.Fprintf(c.out, "%s: %d entries\n", ch.Kind, ch.Count)
				default:
					fmt.Fprintf(c.out, "%s: %s %s\n", ch.Kind, ch.Op, ch.ID)
				}
			}
			for _, kind := range []models.Kind{models.KindProduct, models.KindPriceList, models.KindSold} {
				if err := c.app.Bus.Subscribe(store.ChangedTopic(kind), printChange); err != nil {
					return errors.Wrap(err, "subscribe")
				}
			}

			r, err := c.app.Refresher()
			if err != nil {
				return errors.Wrapf(err, "schedule %q", c.cfg.RefreshSpec)
			}
			if err := r.RefreshAll(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "initial refresh: %v\n", err)
			}
			r.Start()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			<-r.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "every", "", `cron spec, e.g. "@every 30s" (default $CATALOG_REFRESH_SPEC)`)
	return cmd
}
