package broadcast

import (
	"log/slog"
	"sync"
)

// subscriberBuffer — ёмкость очереди событий одного наблюдателя.
// Наблюдатель, не успевающий вычитывать события, теряет новые события,
// но никогда не блокирует мутацию.
const subscriberBuffer = 32

// Subscriber представляет одного подключённого наблюдателя.
// Жизненный цикл совпадает с жизнью соединения: Subscribe при подключении,
// Unsubscribe при разрыве.
type Subscriber struct {
	events chan Event
}

// Events возвращает канал, из которого наблюдатель вычитывает события.
// Канал закрывается при Unsubscribe.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub хранит множество активных наблюдателей и рассылает им события.
//
// Множество защищено мьютексом: запись выполняется только при подключении
// и отключении, рассылка идёт через единственную точку диспетчеризации,
// что сохраняет порядок событий для каждого наблюдателя.
type Hub struct {
	log *slog.Logger

	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// NewHub создаёт пустой Hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[*Subscriber]struct{}),
	}
}

// Subscribe регистрирует нового наблюдателя и возвращает его.
// События, разосланные до подписки, наблюдателю не доставляются.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{events: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	observersConnected.Inc()
	return sub
}

// Unsubscribe удаляет наблюдателя и закрывает его канал событий.
// Повторный вызов для того же наблюдателя безопасен.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.events)
		observersConnected.Dec()
	}
	h.mu.Unlock()
}

// Broadcast доставляет событие каждому активному наблюдателю.
//
// Отправка неблокирующая: при переполненной очереди наблюдателя событие
// для него отбрасывается. Рассылка при нуле наблюдателей — допустимая
// пустая операция, события не накапливаются.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	eventsTotal.WithLabelValues(ev.Type).Inc()
	for sub := range h.subs {
		select {
		case sub.events <- ev:
		default:
			eventsDropped.WithLabelValues(ev.Type).Inc()
			h.log.Warn("observer queue full, event dropped",
				slog.String("event_type", ev.Type))
		}
	}
}

// Len возвращает текущее число подключённых наблюдателей.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
