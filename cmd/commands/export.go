package commands

import (
	"errors"
	"fmt"
	"os"

	"restaurant-site/internal/client"
	"restaurant-site/internal/export"
	"restaurant-site/pkg/models"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	exportOutput   string
	exportUsername string
	exportPassword string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write orders and reservations to an .xlsx workbook",
	Long: `Log in to --api and save every order and reservation to a workbook with
one sheet each.

Examples:
  restaurant export -u alice -p s3cret
  restaurant export -u alice -p s3cret -o march.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()
		if _, err := c.Login(ctx, exportUsername, exportPassword); err != nil {
			return errors.New(client.Describe(err))
		}

		var (
			orders       []models.Order
			reservations []models.Reservation
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			orders, err = c.ListOrders(gctx)
			return err
		})
		g.Go(func() (err error) {
			reservations, err = c.ListReservations(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return errors.New(client.Describe(err))
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		if err := export.Write(f, orders, reservations); err != nil {
			f.Close()
			return fmt.Errorf("write workbook: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders and %d reservations to %s\n",
			len(orders), len(reservations), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "restaurant-export.xlsx", "Workbook to write")
	exportCmd.Flags().StringVarP(&exportUsername, "username", "u", "", "Staff username")
	exportCmd.Flags().StringVarP(&exportPassword, "password", "p", "", "Staff password")
	rootCmd.AddCommand(exportCmd)
}
