// Package ws carries the same tilde line protocol over WebSocket, one
// message per text frame, for clients that cannot open a raw socket.
package ws

import (
	"context"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"skipbo/internal/session"
	"skipbo/internal/transport"
)

func Handler(sess *session.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c := transport.NewClient(uuid.NewString(), sess, log)
		defer c.Close()

		// Writer goroutine: one frame per server line.
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			for {
				select {
				case line := <-c.Outbox():
					if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				// Clean close or not, the cleanup below is the same.
				break
			}
			// A frame may carry several newline-separated lines.
			for _, line := range strings.Split(string(data), "\n") {
				c.HandleLine(strings.TrimSpace(line))
			}
		}

		cancel()
		<-writeDone
	}
}
