// Package gateway exposes the assistant over a WebSocket endpoint so the
// mobile app can chat without a platform bot in between.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/menupilot/menupilot/internal/channels"
)

// clientRequest is one inbound frame from the app.
type clientRequest struct {
	Session string `json:"session"`
	Message string `json:"message"`
}

// serverReply is one outbound frame. Type is "reply" for the final answer
// and "error" when the turn failed.
type serverReply struct {
	Type  string `json:"type"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server is the WebSocket gateway.
type Server struct {
	responder channels.Responder
	upgrader  websocket.Upgrader
	addr      string
}

// New creates a gateway Server listening on host:port.
func New(responder channels.Responder, host string, port int) *Server {
	return &Server{
		responder: responder,
		addr:      fmt.Sprintf("%s:%d", host, port),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The app connects from a file:// or native origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gateway: listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("gateway: upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	slog.Info("gateway: client connected", "remote", conn.RemoteAddr())

	for {
		var req clientRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("gateway: read failed", "err", err)
			}
			return
		}
		if req.Message == "" {
			continue
		}
		session := req.Session
		if session == "" {
			session = "default"
		}

		reply, err := s.responder.Respond(r.Context(), "gateway:"+session, req.Message)
		if err != nil {
			slog.Error("gateway: assistant turn failed", "err", err)
			_ = conn.WriteJSON(serverReply{Type: "error", Error: "assistant unavailable, please retry"})
			continue
		}
		if err := conn.WriteJSON(serverReply{Type: "reply", Reply: reply}); err != nil {
			slog.Warn("gateway: write failed", "err", err)
			return
		}
	}
}
