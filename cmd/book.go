package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/services/availability"
	"github.com/ceverett10/holibob-booking/services/booking"
)

// newBookCmd drives the whole look-to-book flow: resolve availability to a
// priced offer, create a booking, attach the offer, answer questions, commit
// and wait for supplier confirmation.
func newBookCmd() *cobra.Command {
	var (
		productID        string
		start, end       string
		adults           int
		firstName        string
		lastName         string
		email            string
		partnerReference string
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Run the full look-to-book flow for one product",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t := newTransport()
			resolver := availability.NewResolver(t)
			orchestrator := booking.NewOrchestrator(t)

			session, err := resolver.Resolve(ctx, productID, start, end, availability.FirstChoiceChooser)
			if err != nil {
				return err
			}
			categories, err := resolver.Pricing(ctx, session)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				return fmt.Errorf("no pricing categories for product %s", productID)
			}
			total, err := resolver.SetPricing(ctx, session, map[string]int{categories[0].ID: adults})
			if err != nil {
				return err
			}
			fmt.Printf("offer priced: %.2f %s\n", total, session.Currency)

			b, err := orchestrator.Create(ctx, booking.CreateOptions{
				PartnerReference: partnerReference,
				LeadGuest:        &models.Guest{FirstName: firstName, LastName: lastName, Email: email},
			})
			if err != nil {
				return err
			}
			selector := models.BookingSelector{ID: b.ID}

			if _, err := orchestrator.AddAvailability(ctx, selector, session.SessionID); err != nil {
				return err
			}

			b, err = orchestrator.AnswerUntilCommittable(ctx, selector, guestAnswerer(firstName, lastName, email), 0)
			if err != nil {
				return err
			}

			b, err = orchestrator.Commit(ctx, b)
			if err != nil {
				return err
			}
			fmt.Printf("booking %s committed, waiting for supplier\n", b.ID)

			confirmed, err := orchestrator.WaitForConfirmation(ctx, b.ID, booking.ConfirmationOptions{})
			if err != nil {
				return err
			}
			fmt.Printf("booking %s confirmed (reference %s)\n", confirmed.ID, confirmed.Reference)
			return nil
		},
	}
	c.Flags().StringVar(&productID, "product", "", "product id (required)")
	c.Flags().StringVar(&start, "start", "", "range start (required)")
	c.Flags().StringVar(&end, "end", "", "range end (required)")
	c.Flags().IntVar(&adults, "adults", 1, "units for the first pricing category")
	c.Flags().StringVar(&firstName, "first-name", "", "lead guest first name")
	c.Flags().StringVar(&lastName, "last-name", "", "lead guest last name")
	c.Flags().StringVar(&email, "email", "", "lead guest email")
	c.Flags().StringVar(&partnerReference, "reference", "", "partner booking reference")
	_ = c.MarkFlagRequired("product")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("end")
	return c
}

// guestAnswerer fills required questions from the lead-guest details; any
// question it cannot map is left for upstream auto-fill.
func guestAnswerer(firstName, lastName, email string) booking.AnswerFunc {
	byLabel := map[string]string{
		"First name": firstName,
		"Last name":  lastName,
		"Email":      email,
	}
	return func(questions []models.Question) ([]models.Answer, error) {
		var answers []models.Answer
		for _, q := range questions {
			value, ok := byLabel[q.Label]
			if !ok || value == "" {
				continue
			}
			answers = append(answers, models.Answer{QuestionID: q.ID, Value: value})
		}
		if len(answers) == 0 {
			return nil, fmt.Errorf("cannot answer any of the %d remaining questions; provide guest details", len(questions))
		}
		return answers, nil
	}
}
