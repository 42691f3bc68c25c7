package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const confirmationEmailTimeout = 5 * time.Second

// SendConfirmationEmail sends a confirmation email asynchronously. The send
// outlives the request that triggered it.
func SendConfirmationEmail(ctx context.Context, sender EmailSender, recipient string, confirmation ConfirmationEmail, logger *zerolog.Logger) {
	if sender == nil {
		return
	}
	if confirmation.Subject == "" || confirmation.Body == "" {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := detachedContext(ctx, confirmationEmailTimeout)
		defer cancel()
		if err := sender.Send(sendCtx, recipient, confirmation.Subject, confirmation.Body); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send confirmation email")
		}
	}()
}

// detachedContext keeps ctx's values but not its cancellation, so the send
// survives the end of the request.
func detachedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
