package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saker-ai/debugwire/internal/protocol"
	"github.com/saker-ai/debugwire/internal/scenario"
)

// lineSink prints commands as they are built. The first write error stops
// further output and is reported once playback ends.
type lineSink struct {
	w    io.Writer
	json bool
	err  error
}

type jsonCommand struct {
	Kind    int    `json:"kind"`
	Name    string `json:"name"`
	Seq     int    `json:"seq"`
	Payload string `json:"payload"`
}

func (s *lineSink) AddCommand(cmd protocol.Command) {
	if s.err != nil {
		return
	}
	if s.json {
		s.err = json.NewEncoder(s.w).Encode(jsonCommand{
			Kind:    int(cmd.Kind()),
			Name:    cmd.Kind().String(),
			Seq:     cmd.Seq(),
			Payload: cmd.Payload(),
		})
		return
	}
	_, s.err = io.WriteString(s.w, cmd.Line())
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		scenarioPath string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the commands built for a scenario",
		Long: `Render loads a scenario file describing threads, their stacks and a list of
debugger events, builds the command for every event and prints one command per
line as KIND<TAB>SEQ<TAB>PAYLOAD.`,
		Example: `  debugwire render --scenario suspend.yaml
  debugwire render -s suspend.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			marker := markerFor(a.cfg)
			sc, err := scenario.Load(scenarioPath, marker)
			if err != nil {
				return err
			}
			a.logger.Debug("scenario loaded",
				zap.String("path", scenarioPath),
				zap.Int("threads", len(sc.Threads)),
				zap.Int("events", len(sc.Events)))

			factory, err := newFactory(a.cfg, a.logger, sc.ThreadSource())
			if err != nil {
				return err
			}

			sink := &lineSink{w: cmd.OutOrStdout(), json: asJSON}
			if err := scenario.NewPlayer(sc, factory, marker, sink).Play(); err != nil {
				return err
			}
			if sink.err != nil {
				return fmt.Errorf("write commands: %w", sink.err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print commands as JSON lines")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}
