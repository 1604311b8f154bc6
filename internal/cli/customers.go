package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/events"
	"github.com/spec-kit/invoich-web/internal/service"
)

func newCustomersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "customers",
		Aliases:      []string{"customer"},
		Short:        "Work with the signed-in user's customers",
		SilenceUsage: true,
	}

	cmd.AddCommand(newCustomersListCmd(opts))
	cmd.AddCommand(newCustomersViewCmd(opts))
	cmd.AddCommand(newCustomersDeleteCmd(opts))
	cmd.AddCommand(newCustomersUploadCmd(opts))

	return cmd
}

// openTable builds a customer table for the flag session. Invalidation events
// refetch it, mirroring the web screen.
func openTable(cmd *cobra.Command, opts *options) (*service.CustomerTable, error) {
	session, err := opts.session()
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	table := service.NewCustomerTable(session, service.CustomerTableDependencies{
		API:        opts.client(),
		Notifier:   NewColorNotifier(cmd.ErrOrStderr()),
		Dispatcher: dispatcher,
	})
	dispatcher.Subscribe(events.EventCollectionInvalidated, func(_ context.Context, _ events.Event) error {
		table.Refresh()
		return nil
	})
	return table, nil
}

func loadTable(ctx context.Context, table *service.CustomerTable, search string) (service.TableView, error) {
	table.Activate()
	if err := table.Wait(ctx); err != nil {
		return service.TableView{}, err
	}
	view := table.View(search)
	if view.State == service.TableError {
		return view, errors.New(view.Error)
	}
	return view, nil
}

func newCustomersListCmd(opts *options) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Long: `List the signed-in user's customers.

  --search matches name, company name, email and phone, ignoring case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := openTable(cmd, opts)
			if err != nil {
				return err
			}
			defer table.Close()

			view, err := loadTable(cmd.Context(), table, search)
			if err != nil {
				return err
			}
			return printCustomers(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter rows by a search term")

	return cmd
}

func newCustomersViewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view ID",
		Short: "Show one customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customer, err := service.NewCustomerDetail(opts.client()).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderTable(cmd.OutOrStdout(), nil, [][]string{
				{"ID", customer.ID},
				{"Name", customer.Name},
				{"Company Name", customer.CompanyName},
				{"Email", customer.Email},
				{"Work Phone", customer.WorkPhone},
				{"Receivables", customer.Receivables},
				{"Unused Credits", customer.UnusedCredits},
			})
		},
	}
}

func newCustomersDeleteCmd(opts *options) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a customer after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := openTable(cmd, opts)
			if err != nil {
				return err
			}
			defer table.Close()

			confirm := NewTerminalConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), assumeYes)
			deleted, err := table.Delete(cmd.Context(), args[0], confirm)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func newCustomersUploadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Bulk import customers from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			table, err := openTable(cmd, opts)
			if err != nil {
				return err
			}
			defer table.Close()

			table.SelectFile(domain.UploadFile{
				Name:        filepath.Base(args[0]),
				ContentType: mime.TypeByExtension(filepath.Ext(args[0])),
				Content:     content,
			})
			if err := table.Upload(cmd.Context()); err != nil {
				return err
			}

			view, err := loadTable(cmd.Context(), table, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d customers after import\n", view.Total)
			return nil
		},
	}
}

var customerColumns = []string{"ID", "Name", "Company Name", "Email", "Work Phone", "Receivables", "Unused Credits"}

func printCustomers(out io.Writer, view service.TableView) error {
	rows := make([][]string, 0, len(view.Rows))
	for _, c := range view.Rows {
		rows = append(rows, []string{c.ID, c.Name, c.CompanyName, c.Email, c.WorkPhone, c.Receivables, c.UnusedCredits})
	}
	if err := renderTable(out, customerColumns, rows); err != nil {
		return err
	}
	if len(view.Rows) == 0 {
		_, err := fmt.Fprintln(out, "No customers found.")
		return err
	}
	return nil
}

func renderTable(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	if len(header) > 0 {
		table.Header(toAny(header)...)
	}
	for _, row := range rows {
		if err := table.Append(toAny(row)...); err != nil {
			return fmt.Errorf("render row: %w", err)
		}
	}
	return table.Render()
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
