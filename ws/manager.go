package ws

import (
	"sync"

	"admarket_backend/internal/logger"
)

// Manager держит активные WebSocket-подключения, по одному на
// пользователя. Реализует services.RealtimePusher.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// Новое подключение вытесняет старое того же пользователя
			if old, ok := m.clients[client.UserID]; ok {
				close(old.Send)
			}
			m.clients[client.UserID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws client connected", "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.UserID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws client disconnected", "user_id", client.UserID, "total", total)
		}
	}
}

// PushToUser доставляет кадр пользователю, если он подключен.
// Отключенный пользователь получит данные по REST при следующем запросе.
func (m *Manager) PushToUser(userID string, payload interface{}) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- payload:
	default:
		// Канал переполнен — клиент завис, отключаем
		m.unregister <- client
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
