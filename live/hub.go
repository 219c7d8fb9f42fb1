package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/blackhacks/scrim-system/models"
)

// Message types pushed to subscribers.
const (
	MessageStandingsUpdated = "STANDINGS_UPDATED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"` // ID турнира
}

// StandingsPayload is the body of a STANDINGS_UPDATED message.
type StandingsPayload struct {
	DayID     string                `json:"day_id"`
	Standings []models.TeamStanding `json:"standings"`
}

// Hub раздаёт живые обновления по комнатам. Комната соответствует
// турниру: все подписчики турнира получают каждую пересчитанную таблицу.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client registered",
				slog.String("room", client.room),
				slog.Int("room_size", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
					h.logger.Debug("websocket client unregistered",
						slog.String("room", client.room),
						slog.Int("room_size", len(clients)))
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyStandings implements the notifier hook the match service calls
// after every result-affecting mutation.
func (h *Hub) NotifyStandings(tournamentID, dayID string, standings []models.TeamStanding) {
	h.broadcast(tournamentID, Message{
		Type:    MessageStandingsUpdated,
		RoomID:  tournamentID,
		Payload: StandingsPayload{DayID: dayID, Standings: standings},
	})
}

func (h *Hub) broadcast(roomID string, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal websocket message",
			slog.String("room", roomID),
			slog.String("error", err.Error()))
		return
	}

	for client := range clients {
		if !client.trySend(data) {
			// Канал клиента переполнен, сообщение пропускается. Клиент
			// догонит состояние при следующем обновлении.
			h.logger.Warn("dropping websocket message for slow client",
				slog.String("room", roomID))
		}
	}
}
