package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/adapter/http/middleware"
	"github.com/iho/finledger/internal/infrastructure/auth"
	"github.com/iho/finledger/internal/infrastructure/logger"
	"github.com/iho/finledger/internal/infrastructure/postgres"
)

var errInconsistent = errors.New("ledger is inconsistent")

type postFlags struct {
	amount         string
	description    string
	idempotencyKey string
	asJSON         bool
}

func (f *postFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount to post (decimal)")
	cmd.Flags().StringVar(&f.description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&f.idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the raw JSON response")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *postFlags) request() (*dto.StatementRequest, map[string]string, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid amount %q: %w", f.amount, err)
	}

	headers := map[string]string{}
	if f.idempotencyKey != "" {
		headers[middleware.IdempotencyKeyHeader] = f.idempotencyKey
	}

	return &dto.StatementRequest{Amount: &amount, Description: f.description}, headers, nil
}

func postCmd(opts *options, use, short, path string) *cobra.Command {
	var flags postFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postStatement(cmd, opts, &flags, path)
		},
	}
	flags.register(cmd)

	return cmd
}

func transferCmd(opts *options) *cobra.Command {
	var flags postFlags

	cmd := &cobra.Command{
		Use:   "transfer <receiver_id>",
		Short: "Transfer funds from the acting account to another account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postStatement(cmd, opts, &flags, "/api/v1/statements/transfer/"+url.PathEscape(args[0]))
		},
	}
	flags.register(cmd)

	return cmd
}

func postStatement(cmd *cobra.Command, opts *options, flags *postFlags, path string) error {
	body, headers, err := flags.request()
	if err != nil {
		return err
	}

	var statement dto.StatementResponse
	if _, err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, body, headers, &statement); err != nil {
		return err
	}

	if flags.asJSON {
		return printJSON(cmd.OutOrStdout(), statement)
	}

	printStatements(cmd.OutOrStdout(), []*dto.StatementResponse{&statement})
	return nil
}

func balanceCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the balance of the acting account and its statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.BalanceResponse
			if _, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/statements/balance", nil, nil, &balance); err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), balance)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n\n", balance.Balance.StringFixed(2))
			printStatements(cmd.OutOrStdout(), balance.Statement)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")

	return cmd
}

func statementCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Statement operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <statement_id>",
		Short: "Show a statement owned by the acting account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var statement dto.StatementResponse
			if _, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/statements/"+url.PathEscape(args[0]), nil, nil, &statement); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), statement)
		},
	})

	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.ConsistencyResponse
			if _, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, nil, &result); err != nil {
				// 409 carries the report of an inconsistent ledger.
				var apiErr *apiError
				if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
					return err
				}
				if err := json.Unmarshal([]byte(apiErr.Raw), &result); err != nil {
					return fmt.Errorf("failed to parse response: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if result.Consistent {
				fmt.Fprintf(out, "Consistency check PASSED\n")
				fmt.Fprintf(out, "Checked at: %s\n", result.CheckedAt.Format(time.RFC3339))
				return nil
			}

			fmt.Fprintf(out, "Consistency check FAILED\n")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tBALANCE")
			for _, v := range result.Violations {
				fmt.Fprintf(w, "%s\t%s\n", v.AccountID, v.Balance.StringFixed(2))
			}
			w.Flush()

			return errInconsistent
		},
	})

	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	newMigrator := func(cmd *cobra.Command) *postgres.Migrator {
		log := logger.New(logger.Config{Level: "info", Format: "console", Output: cmd.ErrOrStderr()})
		return postgres.NewMigrator(databaseURL, migrationsPath, log)
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", envOr("MIGRATIONS_PATH", "internal/infrastructure/postgres/migrations"), "Migrations directory")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			return errors.New("--database-url or DATABASE_URL is required")
		}
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return newMigrator(cmd).Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return newMigrator(cmd).Down()
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				version, dirty, err := newMigrator(cmd).Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <account_id>",
		Short: "Issue a bearer token for an account (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the server")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func printStatements(out io.Writer, statements []*dto.StatementResponse) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tTO\tFROM\tDESCRIPTION\tCREATED")
	for _, s := range statements {
		from := "-"
		if s.SenderID != nil {
			from = *s.SenderID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Type, s.Amount.StringFixed(2), s.UserID, from,
			truncate(s.Description, 32), s.CreatedAt.Format(time.RFC3339))
	}
	w.Flush()
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
