package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"tahfidz_go/config"
	"tahfidz_go/database"
	"tahfidz_go/models"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Queue item structure stored in Redis. Kept minimal; one payload may fan out
// to many user IDs. The database write is the source of truth — Redis is only
// a buffer, and a dead Redis degrades to direct inserts.
type queuedNotification struct {
	UserIDs   []uint    `json:"user_ids"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const redisListKey = "notifications:queue"

// WSHub interface for WebSocket broadcasting
type WSHub interface {
	BroadcastToUser(userID uint, message interface{})
}

// defaultHub allows services created in different parts of the app (e.g.
// schedulers) to broadcast over the same hub without manual wiring.
var defaultHub WSHub

// SetDefaultWSHub sets the package-level default WebSocket hub used by new
// Service instances.
func SetDefaultWSHub(h WSHub) {
	defaultHub = h
}

// Service exposes notification creation with an optional Redis queue.
// If Redis is disabled or unavailable it performs direct DB inserts.
type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	useRedis bool
	wsHub    WSHub
}

func NewService() *Service {
	return &Service{
		db:       database.DB,
		redis:    database.GetRedisClient(),
		useRedis: config.AppConfig.UseRedisNotifications && database.GetRedisClient() != nil,
		wsHub:    defaultHub,
	}
}

// SetWebSocketHub attaches a hub for realtime delivery
func (s *Service) SetWebSocketHub(hub WSHub) {
	s.wsHub = hub
}

// Notify creates a notification for each user, via the queue when enabled.
func (s *Service) Notify(userIDs []uint, title, message, notifType string, data any) error {
	if len(userIDs) == 0 {
		return nil
	}
	if notifType == "" {
		notifType = "info"
	}

	if s.useRedis {
		item := queuedNotification{
			UserIDs:   userIDs,
			Title:     title,
			Message:   message,
			Type:      notifType,
			Data:      data,
			CreatedAt: time.Now(),
		}
		payload, err := json.Marshal(item)
		if err == nil {
			if pushErr := s.redis.LPush(context.Background(), redisListKey, payload).Err(); pushErr == nil {
				return nil
			}
			// Queue unreachable: fall back to the direct path below
		}
	}

	return s.insertAndBroadcast(userIDs, title, message, notifType, data)
}

// NotifyUser is the single-recipient convenience wrapper
func (s *Service) NotifyUser(userID uint, title, message, notifType string, data any) error {
	return s.Notify([]uint{userID}, title, message, notifType, data)
}

func (s *Service) insertAndBroadcast(userIDs []uint, title, message, notifType string, data any) error {
	var dataJSON models.JSON
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			dataJSON = b
		}
	}

	var firstErr error
	for _, userID := range userIDs {
		n := models.Notification{
			UserID:  userID,
			Title:   title,
			Message: message,
			Type:    notifType,
			Data:    dataJSON,
		}
		if err := s.db.Create(&n).Error; err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if s.wsHub != nil {
			s.wsHub.BroadcastToUser(userID, map[string]interface{}{
				"type":         "notification",
				"notification": n,
			})
		}
	}
	return firstErr
}

// StartWorker drains the Redis queue in the background until stop is closed.
func (s *Service) StartWorker(stop chan struct{}) {
	if !s.useRedis {
		log.Println("Notification worker not started: Redis queue disabled")
		return
	}

	go func() {
		log.Println("Notification worker started")
		for {
			select {
			case <-stop:
				log.Println("Notification worker stopped")
				return
			default:
			}

			res, err := s.redis.BRPop(context.Background(), 5*time.Second, redisListKey).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				log.Printf("Notification worker redis error: %v", err)
				time.Sleep(2 * time.Second)
				continue
			}
			if len(res) != 2 {
				continue
			}

			var item queuedNotification
			if err := json.Unmarshal([]byte(res[1]), &item); err != nil {
				log.Printf("Notification worker: bad payload: %v", err)
				continue
			}

			if err := s.insertAndBroadcast(item.UserIDs, item.Title, item.Message, item.Type, item.Data); err != nil {
				log.Printf("Notification worker: insert failed: %v", err)
			}
		}
	}()
}
