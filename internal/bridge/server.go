package bridge

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// Message protocol between the producer and the host, one JSON object per
// websocket message.
const (
	ActionSyncData        = "syncData"
	ActionGetLocalHistory = "getLocalHistory"
)

// Request is a producer-to-host message.
type Request struct {
	Action string `json:"action"`
}

// SyncResponse answers a syncData request.
type SyncResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HistoryResponse answers a getLocalHistory request.
type HistoryResponse struct {
	History []models.HistoryItem `json:"history"`
	Error   string               `json:"error,omitempty"`
}

// ErrorResponse answers a request the server does not understand.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes the reconciler and the host history over the bridge
// protocol.
type Server struct {
	syncer   *Syncer
	host     storage.Store
	log      logging.Logger
	upgrader websocket.Upgrader
}

func NewServer(syncer *Syncer, host storage.Store, log logging.Logger) *Server {
	return &Server{
		syncer: syncer,
		host:   host,
		log:    log.With("component", "bridge-server"),
	}
}

// Handler upgrades the connection and serves requests until the peer
// disconnects. Each connection is independent.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn(r.Context(), "upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		s.serveConn(r.Context(), conn)
	})
}

func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn) {
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		resp := s.handle(ctx, req)
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, req Request) any {
	switch req.Action {
	case ActionSyncData:
		if _, err := s.syncer.SyncOnce(ctx); err != nil {
			s.log.Error(ctx, "sync request failed", "error", err)
			return SyncResponse{Success: false, Error: err.Error()}
		}
		return SyncResponse{Success: true}

	case ActionGetLocalHistory:
		items, err := storage.LoadRecords[models.HistoryItem](ctx, s.host, storage.NamespaceHistory)
		if err != nil {
			s.log.Error(ctx, "history request failed", "error", err)
			return HistoryResponse{History: []models.HistoryItem{}, Error: err.Error()}
		}
		return HistoryResponse{History: items}

	default:
		return ErrorResponse{Error: "unknown action: " + req.Action}
	}
}
