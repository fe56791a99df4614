package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceverett10/holibob-booking/services/availability"
)

func newAvailabilityCmd() *cobra.Command {
	var (
		productID  string
		start, end string
	)

	c := &cobra.Command{
		Use:   "availability",
		Short: "Negotiate a product + date range to an option-complete offer and show pricing",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := availability.NewResolver(newTransport())
			session, err := resolver.Resolve(cmd.Context(), productID, start, end, availability.FirstChoiceChooser)
			if err != nil {
				return err
			}
			fmt.Printf("session %s state=%s nodes=%d\n", session.SessionID, session.State(), len(session.Nodes))

			categories, err := resolver.Pricing(cmd.Context(), session)
			if err != nil {
				return err
			}
			for _, cat := range categories {
				fmt.Printf("%s\t%s\t%.2f/unit\n", cat.ID, cat.Label, cat.UnitPrice)
			}
			return nil
		},
	}
	c.Flags().StringVar(&productID, "product", "", "product id (required)")
	c.Flags().StringVar(&start, "start", "", "range start (required)")
	c.Flags().StringVar(&end, "end", "", "range end (required)")
	_ = c.MarkFlagRequired("product")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("end")
	return c
}
