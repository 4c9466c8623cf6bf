package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL   string
	timeout   time.Duration
	accountID string
	token     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "finledger-cli",
		Short:         "finledger CLI tool",
		Long:          `A command line interface for posting statements to the finledger API and operating its database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", envOr("FINLEDGER_URL", "http://localhost:8080"), "Base URL of the finledger API")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	flags.StringVar(&opts.accountID, "account", os.Getenv("FINLEDGER_ACCOUNT"), "Acting account ID (sent as X-Account-ID)")
	flags.StringVar(&opts.token, "token", os.Getenv("FINLEDGER_TOKEN"), "Bearer token (takes precedence over --account)")

	rootCmd.AddCommand(
		postCmd(opts, "deposit", "Deposit funds into the acting account", "/api/v1/statements/deposit"),
		postCmd(opts, "withdraw", "Withdraw funds from the acting account", "/api/v1/statements/withdraw"),
		transferCmd(opts),
		balanceCmd(opts),
		statementCmd(opts),
		ledgerCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
