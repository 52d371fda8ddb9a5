package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-site/internal/client"

	"github.com/spf13/cobra"
)

var reservation client.ReservationForm

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Book a table",
	Long: `Book a table. Reservations must be in the future and start between
11:00 and 22:00.

Examples:
  restaurant reserve --date 2030-05-02 --time 19:30 --guests 4 --name Anna`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reservation.Customer = customer
		if err := client.ValidateReservation(reservation, time.Now(), client.DefaultServiceWindow); err != nil {
			return errors.New(client.Describe(err))
		}

		api := newClient()
		var id int64
		err := submit(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context) (err error) {
			id, err = api.CreateReservation(ctx, reservation)
			return err
		})
		if err != nil {
			return errors.New(client.Describe(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reservation created successfully! Reservation #%d\n", id)
		return nil
	},
}

func init() {
	reserveCmd.Flags().StringVar(&reservation.Date, "date", "", "Date (YYYY-MM-DD)")
	reserveCmd.Flags().StringVar(&reservation.Time, "time", "", "Time (HH:MM)")
	reserveCmd.Flags().IntVarP(&reservation.Guests, "guests", "g", 0, "Number of guests")
	addCustomerFlags(reserveCmd)
	rootCmd.AddCommand(reserveCmd)
}
