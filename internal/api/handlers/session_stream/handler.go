package session_stream

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/handlers/session_wizard"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/portal"
)

const (
	msgSessionNotFound = "Sesión no encontrada o expirada"

	typeSessionClosed = "session_closed"

	// bufferSize сообщений на соединение; при переполнении соединение закрывается
	bufferSize = 64
)

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle GET /api/v1/sessions/{sessionId}/stream
// Первое сообщение содержит текущее состояние мастера
// Входящие сообщения продлевают жизнь сессии; при закрытии сессии поток закрывается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, s)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, s *portal.Session) {
	// Снимаем дедлайны http.Server, унаследованные захваченным соединением
	_ = conn.SetDeadline(time.Time{})

	out := make(chan Message, bufferSize)
	overflow := make(chan struct{})
	var overflowOnce sync.Once

	// Слушатели вызываются синхронно из компонентов сессии, блокировать их нельзя
	unsubscribe := s.Watch(func(e portal.StreamEvent) {
		select {
		case out <- fromEvent(e):
		default:
			overflowOnce.Do(func() { close(overflow) })
		}
	})
	defer unsubscribe()

	state := session_wizard.FromState(s.Wizard.Snapshot())
	if err := websocket.JSON.Send(conn, Message{Type: string(portal.StreamWizard), Wizard: &state}); err != nil {
		return
	}

	h.logger.Info("Stream: connection opened session_id=%s", s.ID)
	defer h.logger.Info("Stream: connection closed session_id=%s", s.ID)

	done := make(chan struct{})
	defer close(done)
	defer conn.Close()

	inbound := make(chan InboundMessage)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			var msg InboundMessage
			if err := websocket.JSON.Receive(conn, &msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case msg := <-out:
			if err := websocket.JSON.Send(conn, msg); err != nil {
				return
			}
		case msg := <-inbound:
			s.Touch()
			if msg.Type == "ping" {
				if err := websocket.JSON.Send(conn, Message{Type: "pong"}); err != nil {
					return
				}
			}
		case <-s.Done():
			h.logger.Info("Stream: session closed, closing stream session_id=%s", s.ID)
			_ = websocket.JSON.Send(conn, Message{Type: typeSessionClosed})
			return
		case <-overflow:
			h.logger.Warn("Stream: client too slow, closing session_id=%s", s.ID)
			return
		case <-readDone:
			return
		}
	}
}
