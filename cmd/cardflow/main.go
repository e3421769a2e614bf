// Cardflow CLI — каталог карточек, редактирование и запуск pipeline.
//
// Использование:
//
//	cardflow [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	cards       Каталог определений карточек
//	pipeline    Редактирование файла pipeline
//	run         Выполнение pipeline (локально, --remote или --queue)
//	executions  История запусков на сервере
//	watch       Повторный запуск по cron или интервалу
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cardflow/internal/cli"
	"github.com/shaiso/Cardflow/internal/config"
	"github.com/shaiso/Cardflow/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "cardflow",
		Short:         "Cardflow CLI — card-based data pipelines",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", cfg.APIURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	var local *cli.Local
	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }
	localFn := func() *cli.Local {
		if local == nil {
			local = cli.NewLocal(telemetry.NewLogger(os.Stderr), cfg.MaxGeneratedItems)
		}
		return local
	}

	rootCmd.AddCommand(
		cli.NewCardsCmd(clientFn, localFn, outputFn),
		cli.NewPipelineCmd(localFn, outputFn),
		cli.NewRunCmd(clientFn, localFn, outputFn),
		cli.NewExecutionsCmd(clientFn, outputFn),
		cli.NewWatchCmd(localFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
