// Package invoice simulates sending an order invoice by email. The
// send is a cancellable task with an explicit outcome; it carries no
// order state beyond the id it references.
package invoice

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrNoRecipient  = errors.New("recipient email required")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether s looks like an email address.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Request describes one invoice send.
type Request struct {
	OrderID string `json:"order_id"`
	To      string `json:"to"`
	CC      string `json:"cc,omitempty"`
	BCC     string `json:"bcc,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r Request) validate() error {
	if r.To == "" {
		return ErrNoRecipient
	}
	if !ValidateEmail(r.To) {
		return ErrInvalidEmail
	}
	for _, addr := range []string{r.CC, r.BCC} {
		if addr != "" && !ValidateEmail(addr) {
			return ErrInvalidEmail
		}
	}
	return nil
}

// Sender delivers invoices with a simulated latency. No mail actually
// leaves the process.
type Sender struct {
	delay time.Duration
}

func NewSender(delay time.Duration) *Sender {
	return &Sender{delay: delay}
}

// Send validates the request and waits out the simulated delivery
// delay. Cancelling ctx aborts the send with ctx's error.
func (s *Sender) Send(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
