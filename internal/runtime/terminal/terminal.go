package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/service/reporting"
)

const commandTimeout = 60 * time.Second

// ReportService is what the CLI needs from the reporting layer.
type ReportService interface {
	PlotCosts(ctx context.Context, ownerID string, period models.DateRange, filter models.CostBucket) (*models.CostReport, error)
	ProductGroups(ctx context.Context, ownerID string) ([]models.ProductGroup, error)
}

// Options contain configuration for the CLI.
type Options struct {
	Service     ReportService
	Output      io.Writer
	OwnerID     string
	DefaultDays int
	Location    *time.Location
}

// CLI is the costreport command tree.
type CLI struct {
	opts     Options
	reporter *Reporter
	rootCmd  *cobra.Command
	now      func() time.Time
}

// NewCLI creates a new CLI instance.
func NewCLI(opts Options) (*CLI, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultDays <= 0 {
		opts.DefaultDays = 30
	}

	reporter, err := NewReporter(opts.Output)
	if err != nil {
		return nil, err
	}

	cli := &CLI{opts: opts, reporter: reporter, now: time.Now}
	cli.rootCmd = cli.newRootCmd()
	return cli, nil
}

// Execute runs the command line in args.
func (cli *CLI) Execute(args []string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "costreport",
		Short:         "Farm cost allocation and stock reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)
	cmd.PersistentFlags().StringVar(&cli.opts.OwnerID, "owner", cli.opts.OwnerID, "Farm owner ID")

	cmd.AddCommand(cli.newPlotsCmd())
	cmd.AddCommand(cli.newProductsCmd())
	return cmd
}

func (cli *CLI) newPlotsCmd() *cobra.Command {
	var start, end, bucket string
	var days int

	cmd := &cobra.Command{
		Use:   "plots",
		Short: "Allocate costs per plot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			period, err := reporting.ParsePeriod(start, end, cli.now(), days, cli.opts.Location)
			if err != nil {
				return err
			}
			filter, err := models.ParseBucket(bucket)
			if err != nil {
				return err
			}

			report, err := cli.opts.Service.PlotCosts(ctx, cli.opts.OwnerID, period, filter)
			if err != nil {
				return fmt.Errorf("failed to build cost report: %w", err)
			}
			return cli.reporter.CostReport(report)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Restrict to one cost bucket")
	cmd.Flags().IntVar(&days, "days", cli.opts.DefaultDays, "Days to cover when start is not given")
	return cmd
}

func (cli *CLI) newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Group inventory batches into products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			groups, err := cli.opts.Service.ProductGroups(ctx, cli.opts.OwnerID)
			if err != nil {
				return fmt.Errorf("failed to group products: %w", err)
			}
			return cli.reporter.ProductGroups(groups)
		},
	}
}
