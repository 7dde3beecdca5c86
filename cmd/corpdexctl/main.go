package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	domcompany "github.com/kailas-cloud/corpdex/internal/domain/company"
	"github.com/kailas-cloud/corpdex/internal/domain/query/filter"
	"github.com/kailas-cloud/corpdex/internal/domain/query/idlist"
	"github.com/kailas-cloud/corpdex/internal/domain/query/mode"
	"github.com/kailas-cloud/corpdex/internal/domain/query/page"
	"github.com/kailas-cloud/corpdex/internal/domain/record"
	logpkg "github.com/kailas-cloud/corpdex/internal/logger"
	"github.com/kailas-cloud/corpdex/internal/repository/fixture"
	companyuc "github.com/kailas-cloud/corpdex/internal/usecase/company"
	"github.com/kailas-cloud/corpdex/internal/version"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dataDir  string
	ext      string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "corpdexctl",
		Short:         "Query company and employee fixture files",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "data", "directory holding companies/ and employees/")
	root.PersistentFlags().StringVar(&opts.ext, "ext", ".json", "fixture file extension")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newListCmd(opts), newGetCmd(opts))
	return root
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		limit, offset int
		filters       []string
		rawMode       string
		noEmployees   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies after filtering and pagination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := page.New(offset, limit)
			if err != nil {
				return err
			}
			m, err := mode.Parse(rawMode)
			if err != nil {
				return err
			}
			spec, err := parseFilters(filters)
			if err != nil {
				return err
			}

			svc, logger, err := opts.service()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			companies, err := svc.List(cmd.Context(), companyuc.ListParams{
				Window:           window,
				Filters:          spec,
				Mode:             m,
				IncludeEmployees: !noEmployees,
			})
			if err != nil {
				return err
			}
			return printCompanies(cmd.OutOrStdout(), companies)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of companies to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of matching companies to skip")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "field=value substring filter (repeatable)")
	cmd.Flags().StringVar(&rawMode, "mode", string(mode.Inclusive), "filter mode: inclusive or exclusive")
	cmd.Flags().BoolVar(&noEmployees, "no-employees", false, "omit the employees array")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	var maxIDs int

	cmd := &cobra.Command{
		Use:   "get <ids>",
		Short: "Fetch companies by comma-separated ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := idlist.Parse(args[0], maxIDs)
			if err != nil {
				return err
			}

			svc, logger, err := opts.service()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			companies, err := svc.ByIDs(cmd.Context(), ids)
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				return fmt.Errorf("companies not found: %s", args[0])
			}
			return printCompanies(cmd.OutOrStdout(), companies)
		},
	}

	cmd.Flags().IntVar(&maxIDs, "max-ids", idlist.DefaultMaxIDs, "maximum number of ids per request (0 = unlimited)")
	return cmd
}

// service wires the query engine over the configured data directory.
func (o *rootOptions) service() (*companyuc.Service, *zap.Logger, error) {
	logger, err := logpkg.NewLogger("local", o.logLevel)
	if err != nil {
		return nil, nil, err
	}
	loader := fixture.New(os.DirFS(o.dataDir), logger).WithExtension(o.ext)
	return companyuc.New(loader), logger, nil
}

// parseFilters turns repeated field=value flags into a filter spec.
// A later flag for the same field wins.
func parseFilters(raw []string) (filter.Spec, error) {
	values := make(map[string]any, len(raw))
	for _, kv := range raw {
		field, value, ok := strings.Cut(kv, "=")
		if !ok || field == "" {
			return filter.Spec{}, fmt.Errorf("invalid filter %q: expected field=value", kv)
		}
		values[field] = filter.ParseValue(value)
	}
	if len(values) > filter.MaxFields {
		return filter.Spec{}, fmt.Errorf("too many filters (max %d)", filter.MaxFields)
	}
	return filter.NewSpec(values), nil
}

func printCompanies(w io.Writer, companies []domcompany.Company) error {
	out := make([]record.Record, len(companies))
	for i, c := range companies {
		out[i] = c.Flatten()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
