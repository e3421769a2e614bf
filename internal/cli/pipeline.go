package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/pipelinefile"
)

// NewPipelineCmd создаёт группу команд редактирования файла pipeline.
func NewPipelineCmd(localFn func() *Local, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Edit pipeline files",
	}

	cmd.AddCommand(
		newPipelineNewCmd(outputFn),
		newPipelineShowCmd(outputFn),
		newPipelineAddCardCmd(localFn, outputFn),
		newPipelineConnectCmd(outputFn),
		newPipelineRemoveCmd(outputFn),
		newPipelineSetCmd(outputFn),
	)

	return cmd
}

func newPipelineNewCmd(outputFn func() *Output) *cobra.Command {
	var description string
	var file string

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty pipeline file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			p := domain.NewPipeline(args[0], description)
			path := file
			if path == "" {
				path = pipelinefile.FileName(p)
			}

			if err := pipelinefile.SaveFile(path, p); err != nil {
				return err
			}

			if out.IsJSON() {
				out.JSON(p)
				return nil
			}
			out.Success(fmt.Sprintf("Pipeline %s created: %s", p.ID, path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "output", "o", "", "Output file (.json or .yaml)")
	cmd.Flags().StringVar(&description, "description", "", "Pipeline description")

	return cmd
}

func newPipelineShowCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Show cards and connections of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			p, err := pipelinefile.LoadFile(args[0])
			if err != nil {
				return err
			}

			if out.IsJSON() {
				out.JSON(p)
				return nil
			}

			headers := []string{"CARD", "NAME", "DEFINITION", "INPUTS", "OUTPUTS"}
			rows := make([][]string, len(p.Cards))
			for i, c := range p.Cards {
				rows[i] = []string{c.ID, c.Name, c.DefinitionID, describePorts(c.InputPorts), describePorts(c.OutputPorts)}
			}
			out.Table(headers, rows)

			if len(p.Connections) == 0 {
				return nil
			}

			fmt.Fprintln(out.w)
			headers = []string{"CONNECTION", "FROM", "TO"}
			rows = make([][]string, len(p.Connections))
			for i, c := range p.Connections {
				rows[i] = []string{c.ID, endpointName(p, c.SourceCardID, c.SourcePortID), endpointName(p, c.TargetCardID, c.TargetPortID)}
			}
			out.Table(headers, rows)
			return nil
		},
	}
}

func newPipelineAddCardCmd(localFn func() *Local, outputFn func() *Output) *cobra.Command {
	var x, y float64
	var name string

	cmd := &cobra.Command{
		Use:   "add-card FILE DEFINITION_ID",
		Short: "Add a card instance to a pipeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			def, ok := localFn().Catalog.Definition(args[1])
			if !ok {
				return fmt.Errorf("card definition %q not found", args[1])
			}

			p, err := pipelinefile.LoadFile(args[0])
			if err != nil {
				return err
			}

			card := domain.NewCard(def, domain.Position{X: x, Y: y})
			if name != "" {
				card.Name = name
			}
			added := p.AddCard(*card)

			if err := pipelinefile.SaveFile(args[0], p); err != nil {
				return err
			}

			if out.IsJSON() {
				out.JSON(added)
				return nil
			}
			out.Success(fmt.Sprintf("Card %s added: %s", added.ID, added.Name))
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Canvas X position")
	cmd.Flags().Float64Var(&y, "y", 0, "Canvas Y position")
	cmd.Flags().StringVar(&name, "name", "", "Display name (default: definition name)")

	return cmd
}

func newPipelineConnectCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "connect FILE SOURCE_CARD SOURCE_PORT TARGET_CARD TARGET_PORT",
		Short: "Connect an output port to an input port",
		Long:  "Connect an output port to an input port. Ports may be given by ID or by name.",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			p, err := pipelinefile.LoadFile(args[0])
			if err != nil {
				return err
			}

			sourcePort := resolvePort(p, args[1], domain.PortOutput, args[2])
			targetPort := resolvePort(p, args[3], domain.PortInput, args[4])

			conn, err := p.Connect(args[1], sourcePort, args[3], targetPort)
			if err != nil {
				return err
			}

			if err := pipelinefile.SaveFile(args[0], p); err != nil {
				return err
			}

			if out.IsJSON() {
				out.JSON(conn)
				return nil
			}
			out.Success("Connection " + conn.ID + " created")
			return nil
		},
	}
}

func newPipelineRemoveCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "remove FILE ID...",
		Short: "Remove cards or connections by ID",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			p, err := pipelinefile.LoadFile(args[0])
			if err != nil {
				return err
			}

			cards, conns := p.RemoveItems(args[1:]...)
			if cards == 0 && conns == 0 {
				return fmt.Errorf("nothing matched %s", strings.Join(args[1:], ", "))
			}

			if err := pipelinefile.SaveFile(args[0], p); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Removed %d cards and %d connections", cards, conns))
			return nil
		},
	}
}

func newPipelineSetCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE CARD_ID PROPERTY VALUE",
		Short: "Set a card property",
		Long:  "Set a card property. VALUE is parsed as YAML: 5, true, [1, 2] and {a: 1} are typed values.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			value, err := parseValue(args[3])
			if err != nil {
				return err
			}

			p, err := pipelinefile.LoadFile(args[0])
			if err != nil {
				return err
			}

			if err := p.SetProperty(args[1], args[2], value); err != nil {
				return fmt.Errorf("card %s: %w", args[1], err)
			}

			if err := pipelinefile.SaveFile(args[0], p); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Property %s set to %s", args[2], value.String()))
			return nil
		},
	}
}

// resolvePort возвращает ID порта по ID или имени.
// Если порт не найден, аргумент возвращается как есть и ошибку вернёт Connect.
func resolvePort(p *domain.Pipeline, cardID string, dir domain.PortDirection, ref string) string {
	card := p.Card(cardID)
	if card == nil {
		return ref
	}
	if card.Port(ref) != nil {
		return ref
	}
	if port := card.PortByName(dir, ref); port != nil {
		return port.ID
	}
	return ref
}

// parseValue разбирает значение свойства из командной строки.
func parseValue(raw string) (domain.Value, error) {
	var v domain.Value
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return domain.Value{}, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	return v, nil
}

func describePorts(ports []domain.Port) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = p.Name
		if p.Connected {
			parts[i] += "*"
		}
	}
	return strings.Join(parts, ",")
}

func endpointName(p *domain.Pipeline, cardID, portID string) string {
	card := p.Card(cardID)
	if card == nil {
		return cardID + "." + portID
	}
	port := card.Port(portID)
	if port == nil {
		return card.Name + "." + portID
	}
	return card.Name + "." + port.Name
}
