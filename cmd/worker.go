package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ceverett10/holibob-booking/cron"
	"github.com/ceverett10/holibob-booking/services/booking"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background confirmation watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			orchestrator := booking.NewOrchestrator(newTransport())
			return cron.NewWorker(orchestrator).Run()
		},
	}
}
