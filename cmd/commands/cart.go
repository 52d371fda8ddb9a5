package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"restaurant-site/internal/cart"
	"restaurant-site/pkg/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cartSession string
	cartItem    models.OrderItem
)

var errNoSession = errors.New("--session is required")

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage a session cart",
	Long: `Manage the cart of a browsing session. Carts live in Redis and expire after
redis.cart_ttl of inactivity.

Examples:
  restaurant cart add --id 3 --name Momo --price 8.50 --quantity 2
  restaurant cart show --session 4b7c...
  restaurant cart remove 3 --session 4b7c...`,
}

var cartAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a dish, starting a new session when none is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cartSession == "" {
			cartSession = uuid.NewString()
			fmt.Fprintf(cmd.OutOrStdout(), "Session: %s\n", cartSession)
		}
		return withCart(cmd, func(c *cart.Cart) (bool, error) {
			if cartItem.ID == 0 || cartItem.Name == "" {
				return false, errors.New("--id and --name are required")
			}
			c.Add(cartItem)
			return true, nil
		})
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a dish",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		return withCart(cmd, func(c *cart.Cart) (bool, error) {
			if !c.Remove(id) {
				return false, fmt.Errorf("item %d is not in the cart", id)
			}
			return true, nil
		})
	},
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCart(cmd, func(c *cart.Cart) (bool, error) {
			return false, nil
		})
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cartSession == "" {
			return errNoSession
		}
		store, closeStore, err := openCartStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.Delete(cmd.Context(), cartSession); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Your cart is empty.")
		return nil
	},
}

func init() {
	cartCmd.PersistentFlags().StringVarP(&cartSession, "session", "s", "", "Cart session id")

	cartAddCmd.Flags().Int64Var(&cartItem.ID, "id", 0, "Dish id")
	cartAddCmd.Flags().StringVar(&cartItem.Name, "name", "", "Dish name")
	cartAddCmd.Flags().StringVar(&cartItem.Description, "description", "", "Dish description")
	cartAddCmd.Flags().Float64Var(&cartItem.Price, "price", 0, "Unit price")
	cartAddCmd.Flags().IntVarP(&cartItem.Quantity, "quantity", "q", 1, "Quantity to add")

	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartShowCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func openCartStore(cmd *cobra.Command) (cart.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	rdb := cart.NewRedisClient(cfg.Redis)
	if err := cart.Ping(cmd.Context(), rdb); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	return cart.NewRedisStore(rdb, cfg.Redis.CartTTL), func() { rdb.Close() }, nil
}

// withCart loads the session cart, applies fn, saves it when fn reports a
// change and prints the result.
func withCart(cmd *cobra.Command, fn func(c *cart.Cart) (bool, error)) error {
	if cartSession == "" {
		return errNoSession
	}
	store, closeStore, err := openCartStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := store.Load(cmd.Context(), cartSession)
	if err != nil {
		return err
	}
	changed, err := fn(c)
	if err != nil {
		return err
	}
	if changed {
		if err := store.Save(cmd.Context(), cartSession, c); err != nil {
			return err
		}
	}
	printCart(cmd.OutOrStdout(), c)
	return nil
}

func printCart(w io.Writer, c *cart.Cart) {
	if c.Empty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	for _, item := range c.Items() {
		fmt.Fprintf(w, "%4d  %-24s %3d × %8.2f\n", item.ID, item.Name, item.Quantity, item.Price)
	}
	fmt.Fprintf(w, "Total: %s\n", c.Total().StringFixed(2))
}
