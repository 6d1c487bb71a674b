// Package cli wires the fitslic command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/saimn/fitslic/internal/buildinfo"
	"github.com/saimn/fitslic/internal/config"
	"github.com/saimn/fitslic/internal/license"
	"github.com/saimn/fitslic/internal/licensing"
	"github.com/saimn/fitslic/internal/logger"
)

var errNoOperation = errors.New("no operation given: use one of --list, --info, --add, --delete, --header")

// Execute runs the command line and exits with its status.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command line args and returns the exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(config.Load(), stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "fitslic: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	list         bool
	info         bool
	add          string
	del          bool
	header       bool
	catalog      string
	deletePolicy string
	debug        bool
}

func newRootCmd(cfg config.Config, stdout, stderr io.Writer) *cobra.Command {
	opts := options{
		catalog:      cfg.CatalogPath,
		deletePolicy: cfg.DeletePolicy,
	}

	cmd := &cobra.Command{
		Use:           "fitslic [flags] fitsfile",
		Short:         "Modify license information in a FITS header",
		Version:       buildinfo.String(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cfg, stdout, stderr)
			if err != nil {
				return err
			}
			return dispatch(cmd, svc, opts, args[0])
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.BoolVarP(&opts.list, "list", "l", false, "list available licenses")
	f.BoolVarP(&opts.info, "info", "i", false, "show license information in FITS file")
	f.StringVarP(&opts.add, "add", "a", "", "add license information to FITS file")
	f.BoolVarP(&opts.del, "delete", "d", false, "delete license information from FITS file")
	f.BoolVarP(&opts.header, "header", "H", false, "print the primary header of FITS file")
	f.StringVar(&opts.catalog, "catalog", opts.catalog, "YAML file with extra license templates")
	f.StringVar(&opts.deletePolicy, "delete-policy", opts.deletePolicy, "on a missing keyword, stop or delete all others")
	f.BoolVar(&opts.debug, "debug", false, "verbose diagnostics on stderr")
	return cmd
}

func (o options) service(cfg config.Config, stdout, stderr io.Writer) (*licensing.Service, error) {
	log, lerr := logger.New(logger.Config{Out: stderr, Level: cfg.LogLevel, Debug: o.debug})
	if lerr != nil {
		log.Warn().Err(lerr).Str("level", cfg.LogLevel).Msg("invalid log level")
	}

	policy, err := licensing.ParseDeletePolicy(o.deletePolicy)
	if err != nil {
		return nil, err
	}

	catalog := license.Default()
	if o.catalog != "" {
		extra, err := license.LoadFile(o.catalog)
		if err != nil {
			return nil, err
		}
		catalog = catalog.Merge(extra)
		log.Debug().Str("catalog", o.catalog).Int("licenses", extra.Len()).Msg("catalog loaded")
	}

	return licensing.New(catalog,
		licensing.WithOutput(stdout, stderr),
		licensing.WithDeletePolicy(policy),
		licensing.WithLogger(log),
	), nil
}

// dispatch runs the first selected operation, in flag order.
func dispatch(cmd *cobra.Command, svc *licensing.Service, o options, path string) error {
	switch {
	case o.list:
		return svc.List()
	case o.info:
		return svc.Info(cmd.Context(), path)
	case cmd.Flags().Changed("add"):
		return svc.Add(path, o.add)
	case o.del:
		return svc.Delete(path)
	case o.header:
		return svc.Header(cmd.Context(), path)
	default:
		_ = cmd.Usage()
		return errNoOperation
	}
}
