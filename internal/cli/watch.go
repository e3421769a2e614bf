package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/scheduler"
)

// NewWatchCmd создаёт команду повторного запуска pipeline по расписанию.
func NewWatchCmd(localFn func() *Local, outputFn func() *Output) *cobra.Command {
	var cronExpr string
	var every time.Duration
	var timezone string

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-run a pipeline file on a cron schedule or interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			local := localFn()
			out := outputFn()

			s, err := scheduler.New(scheduler.Config{
				Path: args[0],
				Trigger: scheduler.Trigger{
					CronExpr: cronExpr,
					Interval: every,
					Timezone: timezone,
				},
				Run: func(ctx context.Context, p *domain.Pipeline) error {
					return runLocal(ctx, local, out, p)
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return s.Watch(ctx)
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (e.g. \"*/5 * * * *\")")
	cmd.Flags().DurationVar(&every, "every", 0, "Fixed interval between runs (e.g. 30s)")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "Timezone for the cron expression")

	return cmd
}
