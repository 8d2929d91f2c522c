package queue

import (
	"context"
	"fmt"

	"github.com/xavierca1/leadflow/internal/infra/metrics"
)

// DirectDispatcher sends outreach in the caller's goroutine. It stands in for
// the broker when none is configured.
type DirectDispatcher struct {
	Sender MailSender
}

func NewDirectDispatcher(sender MailSender) *DirectDispatcher {
	return &DirectDispatcher{Sender: sender}
}

func (d *DirectDispatcher) DispatchOutreach(ctx context.Context, payload OutreachPayload) error {
	if payload.Channel != "email" && payload.Channel != "" {
		return fmt.Errorf("channel %q cannot be delivered automatically", payload.Channel)
	}
	if err := d.Sender.SendOutreach(ctx, payload.To, payload.Name, payload.Subject, payload.Body); err != nil {
		metrics.RecordOutreachDispatch("send", "error")
		metrics.RecordIntegrationError("smtp")
		return err
	}
	metrics.RecordOutreachDispatch("send", "ok")
	return nil
}
