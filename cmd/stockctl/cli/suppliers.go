package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/render"
)

func suppliersCmd(flags *globalFlags) *cobra.Command {
	var (
		search string
		top    int
		size   int
	)
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "List, search or rank suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := flags.client()
			var (
				suppliers []inventory.Supplier
				subtitle  = "suppliers"
				err       error
			)
			switch {
			case top > 0:
				subtitle = fmt.Sprintf("top %d suppliers", top)
				suppliers, err = client.TopRatedSuppliers(cmd.Context(), top)
			case strings.TrimSpace(search) != "":
				subtitle = fmt.Sprintf("suppliers matching %q", search)
				var page inventory.Page[inventory.Supplier]
				page, err = client.SearchSuppliers(cmd.Context(), strings.TrimSpace(search), 0, size)
				suppliers = page.Content
			default:
				var page inventory.Page[inventory.Supplier]
				page, err = client.ListSuppliers(cmd.Context(), 0, size, "", "")
				suppliers = page.Content
			}
			if err != nil {
				return fmt.Errorf("%s", apiclient.UserMessage(err))
			}
			out := cmd.OutOrStdout()
			Banner(out, subtitle)
			PrintTable(out, render.Suppliers(suppliers))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match suppliers by name or code")
	cmd.Flags().IntVar(&top, "top", 0, "Show the N best rated suppliers")
	cmd.Flags().IntVarP(&size, "size", "n", 20, "Suppliers to show")
	cmd.AddCommand(supplierShowCmd(flags))
	return cmd
}

func supplierShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid supplier id %q", args[0])
			}
			s, err := flags.client().GetSupplier(cmd.Context(), id)
			if err != nil {
				if apiclient.IsNotFound(err) {
					return fmt.Errorf("supplier %d not found", id)
				}
				return fmt.Errorf("%s", apiclient.UserMessage(err))
			}
			out := cmd.OutOrStdout()
			Banner(out, s.Name)
			badge := render.SupplierBadge(s.Status)
			fmt.Fprintf(out, "  Code:      %s\n", s.Code)
			fmt.Fprintf(out, "  Type:      %s\n", s.Type)
			fmt.Fprintf(out, "  Location:  %s, %s\n", s.City, s.Country)
			fmt.Fprintf(out, "  Contact:   %s %s\n", s.Email, Subtle.Sprint(s.Phone))
			fmt.Fprintf(out, "  Rating:    %s\n", render.OneDecimal(s.Rating))
			fmt.Fprintf(out, "  Status:    %s\n", badge.Label)
			return nil
		},
	}
}
