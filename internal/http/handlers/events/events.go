// Package events реализует HTTP-обработчик канала наблюдателей.
//
// Соединение повышается до WebSocket; после этого наблюдатель получает
// JSON-события о мутациях в порядке их совершения. История событий
// не воспроизводится: доставляются только события, совершённые после
// подключения. Запросов от наблюдателя не ожидается, входящие сообщения
// вычитываются и отбрасываются ради обработки фреймов закрытия.
package events

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/websocket"

	"github.com/clinicboard/clinic-record-service/internal/broadcast"
	"github.com/clinicboard/clinic-record-service/internal/lib/sl"
)

const (
	// writeWait — предел ожидания записи одного события в соединение.
	writeWait = 10 * time.Second
	// pongWait — предел ожидания pong-ответа от наблюдателя.
	pongWait = 60 * time.Second
	// pingPeriod — период отправки ping-фреймов, меньше pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Hub описывает регистрацию наблюдателей в точке рассылки.
type Hub interface {
	Subscribe() *broadcast.Subscriber
	Unsubscribe(sub *broadcast.Subscriber)
}

// Handler повышает HTTP-соединения до WebSocket и транслирует события наблюдателю.
type Handler struct {
	log      *slog.Logger
	hub      Hub
	upgrader websocket.Upgrader
}

// New создает новый Handler.
func New(log *slog.Logger, hub Hub) *Handler {
	return &Handler{
		log: log,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP godoc
// @Summary Канал событий
// @Description Повышает соединение до WebSocket и транслирует события мутаций: new-patient, update-patient, delete-patient, new-drug.
// @Tags Events
// @Success 101 "Соединение повышено"
// @Failure 400 "Соединение не является WebSocket-рукопожатием"
// @Router /events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.events"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", sl.Err(err))
		return
	}

	sub := h.hub.Subscribe()
	log.Info("observer connected", slog.String("remote", conn.RemoteAddr().String()))

	go h.readLoop(conn, sub, log)
	h.writeLoop(conn, sub, log)
}

// readLoop вычитывает и отбрасывает входящие сообщения.
// Завершение цикла означает разрыв соединения и снимает подписку,
// что останавливает и цикл записи.
func (h *Handler) readLoop(conn *websocket.Conn, sub *broadcast.Subscriber, log *slog.Logger) {
	defer func() {
		h.hub.Unsubscribe(sub)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("observer connection closed unexpectedly", sl.Err(err))
			}
			return
		}
	}
}

// writeLoop доставляет события наблюдателю и поддерживает соединение ping-фреймами.
// Цикл завершается при закрытии канала подписки или ошибке записи.
func (h *Handler) writeLoop(conn *websocket.Conn, sub *broadcast.Subscriber, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unsubscribe(sub)
		_ = conn.Close()
		log.Info("observer disconnected")
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Warn("failed to write event to observer", sl.Err(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
