package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rl1809/canteen/internal/adapter/handler/rpc"
)

var (
	loginKind     string
	loginPassword string
	menuOrderable bool
	menuCategory  string
	orderRequest  string
)

var loginCmd = &cobra.Command{
	Use:   "login <mobile>",
	Short: "Log in and print the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		resp, err := client.Login(ctx, &rpc.LoginRequest{Kind: loginKind, Mobile: args[0], Password: loginPassword})
		if err != nil {
			return err
		}

		fmt.Println(resp.Token)
		fmt.Fprintf(os.Stderr, "%s session valid until %s\n", resp.Kind, resp.ExpiresAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List menu items",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		resp, err := client.ListMenu(ctx, &rpc.ListMenuRequest{OrderableOnly: menuOrderable, Category: menuCategory})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tLEFT\tSTATUS")
		for _, item := range resp.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				shortID(item.ID), item.Name, item.Category, item.Price, item.AvailabilityCount, itemStatus(item))
		}
		return w.Flush()
	},
}

var orderCmd = &cobra.Command{
	Use:   "order <item-id>",
	Short: "Order one unit of an item and print its pickup token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		requestID := orderRequest
		if requestID == "" {
			requestID = uuid.NewString()
		}

		order, err := client.PlaceOrder(authContext(ctx), &rpc.PlaceOrderRequest{RequestID: requestID, ItemID: args[0]})
		if err != nil {
			return err
		}

		fmt.Printf("order %s: %s (%s)\n", order.ID, order.ItemName, order.Price)
		fmt.Printf("pickup token: %s\n", order.Token)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Hand over the order carrying a pickup token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		order, err := client.VerifyToken(authContext(ctx), &rpc.VerifyTokenRequest{Token: args[0]})
		if err != nil {
			return err
		}

		fmt.Printf("delivered %s to customer (order %s)\n", order.ItemName, order.ID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginKind, "kind", "customer", "account kind: customer or admin")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	loginCmd.MarkFlagRequired("password")

	menuCmd.Flags().BoolVar(&menuOrderable, "orderable", false, "only items that can be ordered now")
	menuCmd.Flags().StringVar(&menuCategory, "category", "", "Meals, Snacks or Beverages")

	orderCmd.Flags().StringVar(&orderRequest, "request-id", "", "idempotency key (default: random)")
}

func itemStatus(item rpc.MenuItem) string {
	switch {
	case !item.IsAvailable:
		return "unavailable"
	case item.AvailabilityCount == 0:
		return "sold out"
	default:
		return "available"
	}
}

// shortID trims generated ids for display; seeded ids are already short.
func shortID(id string) string {
	if len(id) > 8 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}
