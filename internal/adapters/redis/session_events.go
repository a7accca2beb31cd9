package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

// SessionEvents is a Redis pub/sub implementation of ports.SessionEventBus.
// Each session ID gets its own channel; every message carries the complete
// replacement session state (or a sign-out tombstone), never a delta, so late
// or re-ordered consumers converge on the latest published state.
type SessionEvents struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewSessionEvents creates a session-change event bus over the given client.
func NewSessionEvents(client redis.UniversalClient, logger *slog.Logger) *SessionEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionEvents{client: client, prefix: "session-events:", logger: logger}
}

// sessionEvent is the wire shape published on the channel.
type sessionEvent struct {
	// SignedOut marks a tombstone; Session is nil in that case.
	SignedOut bool                `json:"signed_out"`
	Session   *domainauth.Session `json:"session,omitempty"`
}

func (e *SessionEvents) channel(sessionID string) string {
	return e.prefix + sessionID
}

// Publish announces the complete replacement state for sessionID.
func (e *SessionEvents) Publish(ctx context.Context, sessionID string, sess *domainauth.Session) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	evt := sessionEvent{SignedOut: sess == nil, Session: sess}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}

	if err := e.client.Publish(ctx, e.channel(sessionID), data).Err(); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	return nil
}

// Subscribe invokes fn once per published transition for sessionID until the
// returned unsubscribe function is called. After unsubscribing, fn is never
// invoked again, even for messages already buffered.
func (e *SessionEvents) Subscribe(
	ctx context.Context,
	sessionID string,
	fn func(*domainauth.Session),
) (func(), error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	sub := e.client.Subscribe(ctx, e.channel(sessionID))
	// Force the subscription handshake so a misconfigured client surfaces now,
	// not on first delivery.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe session events: %w", err)
	}

	var once sync.Once
	done := make(chan struct{})

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt sessionEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					e.logger.Warn("dropping malformed session event",
						"session_id", sessionID, "error", err)
					continue
				}
				select {
				case <-done:
					return
				default:
				}
				if evt.SignedOut {
					fn(nil)
				} else {
					fn(evt.Session)
				}
			}
		}
	}()

	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				e.logger.Warn("closing session event subscription failed",
					"session_id", sessionID, "error", err)
			}
		})
	}
	return unsubscribe, nil
}
