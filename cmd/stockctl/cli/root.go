// Package cli implements the stockctl operator commands.
package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/apiclient"
)

var version = "0.3.0"

type globalFlags struct {
	apiURL    string
	timeout   time.Duration
	redisAddr string
}

// NewRootCmd builds the stockctl command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Operate the stockdesk inventory console",
		Long:          Brand.Sprint("stockctl") + " queries the inventory API and manages console jobs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("stockctl {{ .Version }}\n")
	root.PersistentFlags().StringVar(&flags.apiURL, "api", envOr("INVENTORY_API_URL", apiclient.DefaultBaseURL), "Inventory API base URL")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "Per-request timeout (0 disables)")
	root.PersistentFlags().StringVar(&flags.redisAddr, "redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "Redis address of the job queue")

	root.AddCommand(
		summaryCmd(flags),
		searchCmd(flags),
		lowStockCmd(flags),
		suppliersCmd(flags),
		jobsCmd(flags),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		Bad.Fprintf(stderr, "stockctl: %v\n", err)
		return 1
	}
	return 0
}

func (f *globalFlags) client() *apiclient.Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return apiclient.New(f.apiURL, apiclient.WithTimeout(f.timeout), apiclient.WithLogger(logger))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
