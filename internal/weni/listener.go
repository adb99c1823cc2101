package weni

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/agentprobe/agentprobe/internal/concurrency"
	"github.com/agentprobe/agentprobe/internal/errors"
)

// Listener drains the preview WebSocket on its own goroutine and writes the
// first terminal event (matched answer or transport error) into a shared
// outcome. The caller owns the deadline.
type Listener struct {
	dialer *websocket.Dialer
	url    string
}

func newListener(socketURL string) *Listener {
	return &Listener{
		dialer: websocket.DefaultDialer,
		url:    socketURL,
	}
}

// Open dials the channel and starts the receive loop. The returned close
// function is idempotent and must be called on every terminal path so the
// receive loop exits and no connection survives the invocation.
func (l *Listener) Open(ctx context.Context, out *concurrency.Outcome[string]) (func(), error) {
	conn, resp, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, errors.Channel("WebSocket error occurred: " + err.Error())
	}

	var once sync.Once
	closeConn := func() {
		once.Do(func() { conn.Close() })
	}

	concurrency.SafeGo(func() {
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				// After the caller tears the connection down this write is a
				// no-op: the outcome is already resolved.
				out.Fail(errors.Channel("WebSocket error occurred: " + err.Error()))
				return
			}
			if text, ok := matchAnswer(frame); ok {
				out.Resolve(text)
				return
			}
			slog.Debug("Ignoring non-final frame", "bytes", len(frame))
		}
	}, func(r interface{}) {
		out.Fail(errors.Channel(fmt.Sprintf("WebSocket error occurred: receive loop panic: %v", r)))
	})

	return closeConn, nil
}
