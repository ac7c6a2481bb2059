package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.com", "user.name@example.co.uk", "x@y.z"}
	for _, s := range valid {
		if !ValidateEmail(s) {
			t.Errorf("ValidateEmail(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "plain", "a b@c.com", "@c.com", "a@", "a@b"}
	for _, s := range invalid {
		if ValidateEmail(s) {
			t.Errorf("ValidateEmail(%q) = true, want false", s)
		}
	}
}

func TestSendSucceedsAfterDelay(t *testing.T) {
	s := NewSender(10 * time.Millisecond)
	start := time.Now()
	err := s.Send(context.Background(), Request{OrderID: "o1", To: "a@b.com"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("send returned before the simulated delay elapsed")
	}
}

func TestSendIsCancellable(t *testing.T) {
	s := NewSender(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Send(ctx, Request{OrderID: "o1", To: "a@b.com"})
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled send did not return")
	}
}

func TestSendValidatesRecipients(t *testing.T) {
	s := NewSender(0)
	ctx := context.Background()

	if err := s.Send(ctx, Request{OrderID: "o1"}); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if err := s.Send(ctx, Request{OrderID: "o1", To: "bad"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if err := s.Send(ctx, Request{OrderID: "o1", To: "a@b.com", CC: "bad"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail for cc, got %v", err)
	}
	if err := s.Send(ctx, Request{OrderID: "o1", To: "a@b.com", BCC: "also bad"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail for bcc, got %v", err)
	}
}
