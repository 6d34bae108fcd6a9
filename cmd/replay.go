package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bnema/wlseat/internal/config"
	"github.com/bnema/wlseat/internal/logger"
	"github.com/bnema/wlseat/internal/replay"
	"github.com/bnema/wlseat/internal/ui"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Drive a seat from an input script and print delivered events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := replay.Load(args[0])
		if err != nil {
			return err
		}

		runner := replay.NewRunner(script, config.Get())
		logger.Debugf("Replaying %d events on seat %q", len(script.Events), runner.Seat().Name())

		records, runErr := runner.Run()
		printTranscript(cmd.OutOrStdout(), runner.Seat().Name(), len(script.Events), records, runErr)
		return runErr
	},
}

func printTranscript(w io.Writer, seatName string, steps int, records []replay.Record, err error) {
	fmt.Fprintln(w, ui.FormatHeader("wlseat replay: "+seatName))
	for _, r := range records {
		fmt.Fprintln(w, ui.FormatEvent(r.Step, r.Time, r.Client, r.Device, r.Event))
	}
	fmt.Fprintln(w, ui.FormatSummary(steps, len(records), err))
}
