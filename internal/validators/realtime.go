package validators

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abanremit/readycheck/internal/domain"
)

// WebsocketPath is the realtime endpoint probed on the backend.
const WebsocketPath = "/ws"

// Realtime probes the deployment's websocket endpoint. A missing
// endpoint is advisory (the frontend may poll instead); a refused or
// hung handshake on an existing endpoint gates readiness.
type Realtime struct {
	backendURL string
	timeout    time.Duration
}

func NewRealtime(backendURL string, timeout time.Duration) *Realtime {
	return &Realtime{backendURL: backendURL, timeout: timeout}
}

func (v *Realtime) Name() string { return domain.PhaseRealtime }

func (v *Realtime) Execute(ctx context.Context) (domain.PhaseResult, error) {
	wsURL := websocketURL(v.backendURL) + WebsocketPath

	dialer := websocket.Dialer{HandshakeTimeout: v.timeout}
	dialCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil && resp.StatusCode == http.StatusNotFound {
			return domain.NewPhaseResult(v.Name(), nil, []domain.ValidationWarning{{
				Phase:      v.Name(),
				Message:    fmt.Sprintf("No websocket endpoint at %s; realtime features may be polled", wsURL),
				Suggestion: "Confirm the frontend does not rely on push updates",
			}}), nil
		}
		return domain.NewPhaseResult(v.Name(), []domain.ValidationError{
			domain.NewError(v.Name(), domain.CodeRealtimeUnavailable,
				fmt.Sprintf("Websocket handshake with %s failed", wsURL), err.Error()),
		}, nil), nil
	}
	defer conn.Close()

	// A round trip proves the connection is live, not merely accepted.
	deadline := time.Now().Add(v.timeout)
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		return domain.NewPhaseResult(v.Name(), []domain.ValidationError{
			domain.NewError(v.Name(), domain.CodeRealtimeUnavailable,
				"Websocket connection accepted but write failed", err.Error()),
		}, nil), nil
	}

	return domain.NewPhaseResult(v.Name(), nil, nil), nil
}

func websocketURL(backendURL string) string {
	switch {
	case strings.HasPrefix(backendURL, "https://"):
		return "wss://" + strings.TrimPrefix(backendURL, "https://")
	case strings.HasPrefix(backendURL, "http://"):
		return "ws://" + strings.TrimPrefix(backendURL, "http://")
	default:
		return "ws://" + backendURL
	}
}
