// Package cli implements the closingctl command line tool. It runs the closing
// engine and the closing service against a local SQLite store.
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SscSPs/job_closing_service/internal/core/closing"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/core/services"
	"github.com/SscSPs/job_closing_service/internal/dto"
	"github.com/SscSPs/job_closing_service/internal/logger"
	"github.com/SscSPs/job_closing_service/internal/middleware"
	"github.com/SscSPs/job_closing_service/internal/repositories/database/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// options are the flags shared by every subcommand.
type options struct {
	logLevel  string
	logFormat string
	dbPath    string
	tenantID  string
	userID    string
}

// NewRootCommand builds the closingctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "closingctl",
		Short: "Compute and record job closings from the command line",
		Long: `closingctl splits a job's payments between technician, lead source and company.

"compute" runs the split on a closing form read from a JSON file. "close", "show"
and "reopen" keep closings in a local SQLite database.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Setup(logger.LogConfig{
				Level:  opts.logLevel,
				Format: opts.logFormat,
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "Log format (console, json)")
	flags.StringVar(&opts.dbPath, "db", "closings.db", "Path to the SQLite database")
	flags.StringVar(&opts.tenantID, "tenant", "local", "Tenant the jobs belong to")
	flags.StringVar(&opts.userID, "user", defaultUser(), "User recorded as closing or reopening the job")

	root.AddCommand(
		newComputeCommand(opts),
		newCloseCommand(opts),
		newShowCommand(opts),
		newReopenCommand(opts),
	)
	return root
}

// Execute runs closingctl and exits non-zero on failure.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "closingctl"
}

// serviceContext carries an slog logger for the services, filtered at the CLI's level.
func serviceContext(cmd *cobra.Command) context.Context {
	l := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logger.SlogLevel()}))
	return middleware.WithLogger(cmd.Context(), l)
}

// openStore opens the SQLite store and a closing service on top of it.
func openStore(opts *options) (*sql.DB, *sqlite.JobClosingRepository, portssvc.ClosingSvcFacade, error) {
	db, err := sqlite.InitDB(opts.dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store %s: %w", opts.dbPath, err)
	}
	repo := sqlite.NewJobClosingRepository(db)
	svc := services.NewClosingService(repo, services.WithCalculator(closing.NewCalculator(closing.DefaultOptions())))
	return db, repo, svc, nil
}

// readClosingRequest decodes and validates a closing form from path, or stdin when path is "-".
func readClosingRequest(cmd *cobra.Command, path string) (dto.ClosingRequest, error) {
	var req dto.ClosingRequest
	if path == "" {
		return req, fmt.Errorf("--input is required")
	}

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode input: %w", err)
	}

	v := validator.New()
	v.SetTagName("binding")
	if err := dto.RegisterValidations(v); err != nil {
		return req, err
	}
	if err := v.Struct(req); err != nil {
		return req, fmt.Errorf("invalid input: %w", err)
	}
	return req, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
