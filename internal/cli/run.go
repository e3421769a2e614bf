package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/pipelinefile"
)

// NewRunCmd создаёт команду запуска pipeline из файла.
//
// По умолчанию pipeline выполняется встроенным движком.
// С --remote выполняется на сервере, с --queue ставится в очередь worker'ов.
func NewRunCmd(clientFn func() *Client, localFn func() *Local, outputFn func() *Output) *cobra.Command {
	var remote bool
	var queue bool
	var apply bool

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute a pipeline file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote && queue {
				return errors.New("--remote and --queue are mutually exclusive")
			}

			out := outputFn()
			path := args[0]

			p, err := pipelinefile.LoadFile(path)
			if err != nil {
				return err
			}

			if queue {
				queued, err := clientFn().QueueExecution(p)
				if err != nil {
					return err
				}
				if out.IsJSON() {
					out.JSON(queued)
					return nil
				}
				out.Success(fmt.Sprintf("Pipeline %s queued (message %s)", queued.PipelineID, queued.MessageID))
				return nil
			}

			var exec *domain.PipelineExecution
			if remote {
				exec, err = clientFn().Execute(p)
				if err != nil {
					return err
				}
			} else {
				// При цикле запуск возвращается со статусом error
				exec, err = localFn().Runner.Run(cmd.Context(), p, nil)
				if exec == nil {
					return err
				}
			}

			printExecution(out, p, exec)

			if exec.Status == domain.ExecutionError {
				return fmt.Errorf("execution failed: %s", exec.Error)
			}

			if apply {
				p.ApplyResults(exec.Results)
				if err := pipelinefile.SaveFile(path, p); err != nil {
					return err
				}
				out.Success("Results saved to " + path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Execute on the API server")
	cmd.Flags().BoolVar(&queue, "queue", false, "Queue the execution for a worker")
	cmd.Flags().BoolVar(&apply, "apply", false, "Write results back into the pipeline file")

	return cmd
}

// runLocal выполняет pipeline встроенным движком (используется watch).
func runLocal(ctx context.Context, local *Local, out *Output, p *domain.Pipeline) error {
	exec, err := local.Runner.Run(ctx, p, nil)
	if exec != nil {
		printExecution(out, p, exec)
	}
	return err
}

// printExecution выводит результаты запуска таблицей или JSON.
func printExecution(out *Output, p *domain.Pipeline, exec *domain.PipelineExecution) {
	if out.IsJSON() {
		out.JSON(exec)
		return
	}

	headers := []string{"CARD", "DEFINITION", "STATUS", "ITEMS", "TIME", "ERROR"}
	rows := make([][]string, len(exec.Results))
	for i, r := range exec.Results {
		definition := "-"
		name := r.CardID
		if p != nil {
			if card := p.Card(r.CardID); card != nil {
				definition = card.DefinitionID
				if card.Name != "" {
					name = card.Name
				}
			}
		}

		status := "ok"
		if r.Failed() {
			status = "error"
		}

		rows[i] = []string{
			name,
			definition,
			status,
			strconv.Itoa(countItems(r)),
			fmt.Sprintf("%dms", r.ExecutionTime),
			r.Error,
		}
	}

	out.Table(headers, rows)
	out.Success(fmt.Sprintf("Execution %s: %s (%d cards, %d failed)",
		exec.ID, exec.Status, len(exec.Results), exec.FailedCards()))
}

func countItems(r domain.ExecutionResult) int {
	n := 0
	for _, seq := range r.Outputs {
		n += len(seq)
	}
	return n
}
