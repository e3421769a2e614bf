package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewExecutionsCmd создаёт группу команд для истории запусков на сервере.
func NewExecutionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "executions",
		Short: "Browse execution history",
	}

	cmd.AddCommand(
		newExecutionsListCmd(clientFn, outputFn),
		newExecutionsShowCmd(clientFn, outputFn),
		newExecutionsLatestCmd(clientFn, outputFn),
	)

	return cmd
}

func newExecutionsListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list PIPELINE_ID",
		Short: "List executions of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			execs, err := clientFn().ListExecutions(args[0], limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "STATUS", "CARDS", "FAILED", "STARTED", "ERROR"}
			rows := make([][]string, len(execs))
			for i, e := range execs {
				rows[i] = []string{e.ID, e.Status, strconv.Itoa(e.Cards), strconv.Itoa(e.FailedCards), e.StartTime, e.Error}
			}

			out.Print(headers, rows, execs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newExecutionsShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show execution results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := clientFn().GetExecution(args[0])
			if err != nil {
				return err
			}
			printExecution(outputFn(), nil, exec)
			return nil
		},
	}
}

func newExecutionsLatestCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "latest PIPELINE_ID",
		Short: "Show the latest execution of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := clientFn().LatestExecution(args[0])
			if err != nil {
				return fmt.Errorf("latest execution of %s: %w", args[0], err)
			}
			printExecution(outputFn(), nil, exec)
			return nil
		},
	}
}
