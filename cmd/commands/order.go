package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"restaurant-site/internal/client"

	"github.com/spf13/cobra"
)

var customer client.Customer

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place orders",
}

var orderPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Send the session cart as an order",
	Long: `Send the cart of --session as an order. Timed out attempts are retried up
to three times; the cart is cleared once the order is accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cartSession == "" {
			return errNoSession
		}
		store, closeStore, err := openCartStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cmd.Context()
		c, err := store.Load(ctx, cartSession)
		if err != nil {
			return err
		}
		form := client.OrderFormFromCart(customer, c)
		if err := client.ValidateOrder(form); err != nil {
			return errors.New(client.Describe(err))
		}

		api := newClient()
		var orderID int64
		err = submit(ctx, cmd.ErrOrStderr(), func(ctx context.Context) (err error) {
			orderID, err = api.PlaceOrder(ctx, form)
			return err
		})
		if err != nil {
			return errors.New(client.Describe(err))
		}

		if err := store.Delete(ctx, cartSession); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Order placed but the cart could not be cleared: %v\n", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order placed successfully! Order #%d, total %s\n", orderID, form.Total.StringFixed(2))
		return nil
	},
}

func init() {
	orderPlaceCmd.Flags().StringVarP(&cartSession, "session", "s", "", "Cart session id")
	addCustomerFlags(orderPlaceCmd)
	orderCmd.AddCommand(orderPlaceCmd)
	rootCmd.AddCommand(orderCmd)
}

func addCustomerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&customer.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&customer.Email, "email", "", "Your email")
	cmd.Flags().StringVar(&customer.Phone, "phone", "", "Your phone number")
}

// submit runs op through a Submitter, reporting retries on w.
func submit(ctx context.Context, w io.Writer, op func(ctx context.Context) error) error {
	s := client.NewSubmitter(client.WithObserver(func(st client.Status) {
		if st.State == client.Retrying {
			fmt.Fprintf(w, "Request timed out, retrying in %s (attempt %d)...\n", st.Wait, st.Attempt)
		}
	}))
	return s.Submit(ctx, op)
}
