package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"odoodesk/internal/auth"
	"odoodesk/internal/config"
	"odoodesk/internal/logging"
	"odoodesk/internal/odoo"
	"odoodesk/internal/views"
)

type options struct {
	creds   auth.Credentials
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = &config.Config{HTTPTimeout: 30 * time.Second, PartnerName: "Administrator"}
	}

	root := &cobra.Command{
		Use:          "odooctl",
		Short:        "List products and place sale orders on an Odoo server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return fmt.Errorf("load configuration: %w", cfgErr)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.creds.URL, "url", cfg.OdooURL, "Odoo server URL")
	flags.StringVar(&opts.creds.DB, "db", cfg.OdooDB, "database name")
	flags.StringVar(&opts.creds.Login, "login", cfg.OdooLogin, "user login")
	flags.StringVar(&opts.creds.Password, "password", cfg.OdooPassword, "user password")
	flags.DurationVar(&opts.timeout, "timeout", cfg.HTTPTimeout, "per-request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every JSON-RPC call")

	root.AddCommand(
		newProductsCmd(opts),
		newOrderCmd(opts),
		newPlaceCmd(opts, cfg.PartnerName),
		newPartnerCmd(opts),
	)
	return root
}

// connect authenticates with the flag credentials. The caller must Close
// the returned client.
func (o *options) connect(ctx context.Context) (*odoo.Client, *odoo.Session, error) {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log := logging.New(level, "text")
	return auth.NewService(o.timeout, log.WithField("component", "odooctl")).Login(ctx, o.creds)
}

func newProductsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, session, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			products, err := client.ListProducts(cmd.Context(), session)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), views.Products(products))
			return nil
		},
	}
}

func newOrderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show a sale order and its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return &odoo.ValidationError{Field: "id", Message: "must be a positive integer"}
			}

			client, session, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			order, err := client.ReadOrder(cmd.Context(), session, id)
			if err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), views.Order(order))
			return nil
		},
	}
}

func newPlaceCmd(opts *options, defaultPartner string) *cobra.Command {
	var (
		productID int64
		quantity  string
		partner   string
	)
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Create a sale order with one line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(quantity)
			if err != nil {
				return &odoo.ValidationError{Field: "qty", Message: "quantity must be a number"}
			}

			client, session, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			placed, err := client.PlaceOrder(cmd.Context(), session, partner, productID, qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order created (order_id = %d, line_id = %d) for product_id = %d.\n",
				placed.OrderID, placed.LineID, productID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&productID, "product", 0, "product id")
	cmd.Flags().StringVar(&quantity, "qty", "1", "quantity")
	cmd.Flags().StringVar(&partner, "partner", defaultPartner, "customer name")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func newPartnerCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "partner <name>",
		Short: "Resolve a partner id by exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, session, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			id, err := client.ResolvePartnerByName(cmd.Context(), session, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func printProducts(out io.Writer, rows []views.ProductRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tREF\tCATEGORY\tPRICE\tON HAND\tGUESTS")
	for _, r := range rows {
		guests := "-"
		if r.IsRental {
			guests = strconv.Itoa(r.MaxGuests)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, dash(r.Kind), dash(r.Code), dash(r.Category), r.ListPrice, r.QuantityAvailable, guests)
	}
	w.Flush()
}

func printOrder(out io.Writer, o views.OrderPage) {
	fmt.Fprintf(out, "Order %s\n", o.Name)
	fmt.Fprintf(out, "  Customer: %s\n  Status:   %s\n  Date:     %s\n  Total:    %s\n\n",
		dash(o.Customer), dash(o.Status), dash(o.Date), o.Total)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tQTY\tUNIT PRICE\tSUBTOTAL")
	for _, l := range o.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dash(l.ProductName), l.Quantity, l.UnitPrice, l.Subtotal)
	}
	w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
