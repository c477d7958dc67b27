package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ButyrinIA/posts/internal/events"
)

// writeTimeout ограничивает запись одного события: Publish ждет Ack от каждого подписчика
const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamEvents отдает события изменения постов в websocket до отключения клиента
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подписка до апгрейда, чтобы клиент не пропустил события сразу после рукопожатия
	messages, err := s.subscriber.Subscribe(ctx, events.PostsTopic)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("не удалось открыть websocket", "request_id", requestIDFrom(r.Context()), "error", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("request_id", requestIDFrom(r.Context()))
	logger.Info("подписчик на события подключен")

	// Входящие сообщения не нужны, чтение только замечает закрытие соединения
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("подписчик на события отключен")
			return
		case msg, ok := <-messages:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			e, err := events.Decode(msg)
			if err != nil {
				logger.Warn("пропущено некорректное событие", "error", err)
				msg.Ack()
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err = conn.WriteMessage(websocket.TextMessage, msg.Payload)
			msg.Ack()
			if err != nil {
				logger.Warn("не удалось отправить событие", "seq", e.Seq, "error", err)
				return
			}
			logger.Debug("событие отправлено", "seq", e.Seq, "type", e.Type, "post_id", e.PostID)
		}
	}
}
