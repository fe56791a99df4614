package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/utils"
)

const (
	defaultConfirmationAttempts = 30
	defaultConfirmationInterval = 2 * time.Second
)

// WaitForConfirmation polls the booking until the supplier reaches a terminal
// state. CONFIRMED resolves with the booking; REJECTED and CANCELLED raise a
// TerminalStateError; exhausting the attempt budget raises a
// ConfirmationTimeoutError. The delay between polls is fixed, not
// exponential.
func (o *DefaultOrchestrator) WaitForConfirmation(ctx context.Context, bookingID string, opts ConfirmationOptions) (*models.Booking, error) {
	logger := utils.GetLogger()
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultConfirmationAttempts
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultConfirmationInterval
	}

	selector := models.BookingSelector{ID: bookingID}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		b, err := o.Get(ctx, selector)
		if err != nil {
			return nil, err
		}

		switch b.State {
		case models.BookingConfirmed:
			logger.Info("booking confirmed by supplier",
				zap.String("bookingId", bookingID),
				zap.Int("polls", attempt))
			return b, nil
		case models.BookingRejected, models.BookingCancelled:
			return nil, &TerminalStateError{BookingID: bookingID, State: b.State}
		}

		logger.Debug("booking still pending supplier confirmation",
			zap.String("bookingId", bookingID),
			zap.String("state", string(b.State)),
			zap.Int("attempt", attempt))
		if attempt < maxAttempts {
			if err := o.sleep(ctx, interval); err != nil {
				return nil, err
			}
		}
	}
	return nil, &ConfirmationTimeoutError{BookingID: bookingID, Attempts: maxAttempts}
}
