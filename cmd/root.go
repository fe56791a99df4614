package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ceverett10/holibob-booking/config"
	"github.com/ceverett10/holibob-booking/transport"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "holibob",
		Short: "Client for the Holibob travel-inventory API: discovery, availability, look-to-book",
	}

	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newAvailabilityCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newWorkerCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newTransport loads config and builds the shared signed transport.
func newTransport() *transport.HolibobTransport {
	config.LoadConfig()
	return transport.New(transport.OptionsFromConfig())
}
