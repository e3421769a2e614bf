package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cardflow/internal/domain"
)

// NewCardsCmd создаёт группу команд для просмотра каталога карточек.
func NewCardsCmd(clientFn func() *Client, localFn func() *Local, outputFn func() *Output) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List card definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			var defs []domain.CardDefinition
			if remote {
				var err error
				defs, err = clientFn().ListCards()
				if err != nil {
					return err
				}
			} else {
				for _, def := range localFn().Catalog.List() {
					defs = append(defs, *def)
				}
			}

			headers := []string{"ID", "NAME", "CATEGORY", "INPUTS", "OUTPUTS"}
			rows := make([][]string, len(defs))
			for i, d := range defs {
				rows[i] = []string{d.ID, d.Name, d.Category, portNames(d.InputPorts), portNames(d.OutputPorts)}
			}

			out.Print(headers, rows, defs)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&remote, "remote", false, "Read the catalog from the API server")

	cmd.AddCommand(newCardsShowCmd(clientFn, localFn, outputFn, &remote))

	return cmd
}

func newCardsShowCmd(clientFn func() *Client, localFn func() *Local, outputFn func() *Output, remote *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show card definition details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			var def *domain.CardDefinition
			if *remote {
				var err error
				def, err = clientFn().GetCard(args[0])
				if err != nil {
					return err
				}
			} else {
				var ok bool
				def, ok = localFn().Catalog.Definition(args[0])
				if !ok {
					return fmt.Errorf("card definition %q not found", args[0])
				}
			}

			if out.IsJSON() {
				out.JSON(def)
				return nil
			}

			headers := []string{"FIELD", "VALUE"}
			rows := [][]string{
				{"ID", def.ID},
				{"Name", def.Name},
				{"Category", def.Category},
				{"Description", def.Description},
				{"Executor", def.Executor},
				{"Inputs", portNames(def.InputPorts)},
				{"Outputs", portNames(def.OutputPorts)},
			}
			for _, p := range def.Properties {
				rows = append(rows, []string{"Property " + p.Name, fmt.Sprintf("%s = %s", p.Type, p.Value.String())})
			}

			out.Table(headers, rows)
			return nil
		},
	}
}

func portNames(ports []domain.PortDef) string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
