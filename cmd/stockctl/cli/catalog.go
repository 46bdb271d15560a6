package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/render"
)

// Summary is the combined result of the summary command.
type Summary struct {
	Products   inventory.ProductStats
	Suppliers  inventory.SupplierStats
	Categories []string
	LowStock   []inventory.Product
}

// LoadSummary fetches every summary section concurrently. The first failure
// cancels the remaining calls.
func LoadSummary(ctx context.Context, client *apiclient.Client, lowLimit int) (Summary, error) {
	var s Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := client.ProductStats(gctx)
		s.Products = stats
		return err
	})
	g.Go(func() error {
		stats, err := client.SupplierStatistics(gctx)
		s.Suppliers = stats
		return err
	})
	g.Go(func() error {
		categories, err := client.Categories(gctx)
		s.Categories = categories
		return err
	})
	g.Go(func() error {
		products, err := client.LowStock(gctx, lowLimit)
		s.LowStock = products
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	sort.Strings(s.Categories)
	return s, nil
}

func summaryCmd(flags *globalFlags) *cobra.Command {
	var lowLimit int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show catalog, supplier and low-stock figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s, err := LoadSummary(cmd.Context(), flags.client(), lowLimit)
			if err != nil {
				return fmt.Errorf("%s", apiclient.UserMessage(err))
			}
			Banner(out, "inventory summary")
			p := s.Products
			fmt.Fprintf(out, "  Products:           %s\n", render.Count(p.TotalProducts))
			fmt.Fprintf(out, "  In stock:           %s\n", Good.Sprint(render.Count(p.InStockProducts)))
			fmt.Fprintf(out, "  Low stock:          %s\n", Warn.Sprint(render.Count(p.LowStockCount)))
			fmt.Fprintf(out, "  Out of stock:       %s\n", Bad.Sprint(render.Count(p.OutOfStockCount)))
			fmt.Fprintf(out, "  Inventory value:    %s\n", render.Money(p.TotalInventoryValue))
			fmt.Fprintf(out, "  Suppliers:          %s active of %s\n", render.Count(s.Suppliers.ActiveSuppliers), render.Count(s.Suppliers.TotalSuppliers))
			if len(s.Categories) > 0 {
				fmt.Fprintf(out, "  Categories:         %s\n", strings.Join(s.Categories, ", "))
			}
			if len(s.LowStock) > 0 {
				fmt.Fprintln(out)
				PrintTable(out, render.Products(s.LowStock))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&lowLimit, "low", 5, "Low-stock products to list")
	return cmd
}

func searchCmd(flags *globalFlags) *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products by name, SKU or category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("query must not be blank")
			}
			page, err := flags.client().SearchProducts(cmd.Context(), query, 0, size)
			if err != nil {
				return fmt.Errorf("%s", apiclient.UserMessage(err))
			}
			out := cmd.OutOrStdout()
			Banner(out, fmt.Sprintf("search %q", query))
			PrintTable(out, render.SearchResults(page.Content, query))
			if len(page.Content) > 0 {
				fmt.Fprintf(out, "\n  %s\n", Subtle.Sprint(render.Pagination(page).Summary()))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "n", 20, "Results to show")
	return cmd
}

func lowStockCmd(flags *globalFlags) *cobra.Command {
	var (
		limit  int
		status string
	)
	cmd := &cobra.Command{
		Use:     "low-stock",
		Aliases: []string{"low"},
		Short:   "List products under their minimum stock level",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				products []inventory.Product
				err      error
			)
			subtitle := "low stock"
			if status != "" {
				st := inventory.ProductStatus(strings.ToUpper(strings.TrimSpace(status)))
				if !st.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				subtitle = st.Label()
				var page inventory.Page[inventory.Product]
				page, err = flags.client().ProductsByStatus(cmd.Context(), st, 0, limit)
				products = page.Content
			} else {
				products, err = flags.client().LowStock(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("%s", apiclient.UserMessage(err))
			}
			out := cmd.OutOrStdout()
			Banner(out, strings.ToLower(subtitle))
			PrintTable(out, render.Products(products))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", apiclient.DefaultLowStockLimit, "Maximum products to list")
	cmd.Flags().StringVar(&status, "status", "", "List every product with this status instead (IN_STOCK, LOW_STOCK, OUT_OF_STOCK)")
	return cmd
}
