// Package notify signals subscribers that a deferred resolution completed.
// It owns only the dispatch trigger; payload semantics and retry policy
// belong to the downstream delivery infrastructure.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Tubbz-alt/prior-auth/internal/domain"
)

// Sender pings subscription endpoints. Rest-hook subscriptions get an empty
// POST per the FHIR subscription convention: the notification carries no
// payload, the subscriber re-queries for the updated response. Websocket
// channels are delegated to the socket gateway, which this service only logs
// towards.
type Sender struct {
	logger *slog.Logger
	client *http.Client
}

func NewSender(logger *slog.Logger, timeout time.Duration) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Sender{
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Sender) Notify(ctx context.Context, channelType, endpoint string) error {
	switch channelType {
	case domain.ChannelRestHook:
		return s.restHook(ctx, endpoint)
	case domain.ChannelWebsocket:
		// Socket delivery is owned by the websocket gateway; the trigger is
		// recorded so the gateway's consumer can correlate.
		s.logger.InfoContext(ctx, "websocket notification triggered",
			"module", "notify",
			"layer", "adapter",
			"operation", "notify",
			"outcome", "success",
			"endpoint", endpoint,
		)
		return nil
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedChannel, channelType)
	}
}

func (s *Sender) restHook(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(""))
	if err != nil {
		return fmt.Errorf("build rest-hook request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("rest-hook %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("rest-hook %s: status %d", endpoint, resp.StatusCode)
	}
	s.logger.InfoContext(ctx, "rest-hook notification delivered",
		"module", "notify",
		"layer", "adapter",
		"operation", "notify",
		"outcome", "success",
		"endpoint", endpoint,
		"status_code", resp.StatusCode,
	)
	return nil
}
