package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/stanrun/internal/ctxlog"
	"github.com/vk/stanrun/internal/executor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names emitted to the socket.io endpoint.
const (
	EventChainStarted  = "chain_started"
	EventChainFinished = "chain_finished"
)

const connectTimeout = 15 * time.Second

// SocketIOOptions configure DialSocketIO.
type SocketIOOptions struct {
	Namespace          string
	InsecureSkipVerify bool
}

// SocketIO emits chain events to a socket.io server.
type SocketIO struct {
	client *socket.Socket
}

// DialSocketIO connects to rawURL over the websocket transport and waits for
// the connection to be acknowledged.
func DialSocketIO(ctx context.Context, rawURL string, opts SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must include scheme and host", rawURL)
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}
	io := manager.Socket(namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				connectChan <- err
				return
			}
		}
		connectChan <- fmt.Errorf("connect_error")
	})

	logger.Debug("Connecting notifier...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("Notifier connected.")
		return &SocketIO{client: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}

func (s *SocketIO) ChainStarted(_ context.Context, cmd executor.ChainCommand) {
	s.client.Emit(EventChainStarted, startedEvent(cmd))
}

func (s *SocketIO) ChainFinished(_ context.Context, res executor.Result) {
	s.client.Emit(EventChainFinished, finishedEvent(res))
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	s.client.Disconnect()
	return nil
}
