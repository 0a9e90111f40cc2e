// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package broadcast forwards graph changelists to an editor front end over
// socket.io. A Broadcaster is a graph.Listener; subscribe it to a graph and
// every mutation is emitted as a `graph:changed` event.
package broadcast

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/blockgrid/internal/ctxlog"
	"github.com/vk/blockgrid/internal/graph"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name used when Config.Event is empty.
const DefaultEvent = "graph:changed"

// Config describes the socket.io endpoint.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// Message is the payload of one emitted event.
type Message struct {
	Sequence uint64           `json:"sequence"`
	Changes  graph.Changelist `json:"changes"`
}

// EmitFunc sends one event with a JSON-compatible payload.
type EmitFunc func(event string, payload any)

// Broadcaster emits changelists as events.
type Broadcaster struct {
	event  string
	emit   EmitFunc
	logger *slog.Logger
	seq    atomic.Uint64

	closeOnce sync.Once
	closeFn   func()
}

// New creates a broadcaster over an arbitrary emit function.
func New(event string, emit EmitFunc, logger *slog.Logger) *Broadcaster {
	if event == "" {
		event = DefaultEvent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{event: event, emit: emit, logger: logger, closeFn: func() {}}
}

// Dial connects to the socket.io server and waits for the connection to be
// established or for ctx or the connect timeout to end.
func Dial(ctx context.Context, cfg Config) (*Broadcaster, error) {
	logger := ctxlog.FromContext(ctx).With("component", "broadcast", "url", cfg.URL, "namespace", cfg.Namespace)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q is not absolute", cfg.URL)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		select {
		case connected <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	io.Connect()

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, err)
		}
	}

	b := New(cfg.Event, func(event string, payload any) {
		io.Emit(event, payload)
	}, logger)
	b.closeFn = func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}
	return b, nil
}

// OnChange implements graph.Listener.
func (b *Broadcaster) OnChange(changes graph.Changelist) {
	msg := Message{Sequence: b.seq.Add(1), Changes: changes}
	payload, err := toPayload(msg)
	if err != nil {
		b.logger.Error("Failed to encode changelist.", "error", err)
		return
	}
	b.logger.Debug("Emitting event", "event", b.event, "sequence", msg.Sequence, "changes", len(changes))
	b.emit(b.event, payload)
}

// Close disconnects the underlying socket. It is safe to call more than
// once.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(b.closeFn)
}

// toPayload converts msg into plain maps and slices so that every socket.io
// parser sees ordinary JSON values.
func toPayload(msg Message) (map[string]any, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
