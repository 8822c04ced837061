package realtime

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates a new Redis client
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	log.Printf("Redis client created (addr: %s)\n", addr)
	return rdb
}

// SubscribeNotifications relays notification payloads published by other
// instances (channel notifications:{userID}) ke hub lokal. Jalankan sebagai
// goroutine; berhenti kalau ctx dibatalkan.
func SubscribeNotifications(ctx context.Context, rdb *redis.Client, hub *Hub) {
	sub := rdb.PSubscribe(ctx, "notifications:*")
	defer sub.Close()

	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Redis subscribe error: %v", err)
			return
		}

		idStr := strings.TrimPrefix(msg.Channel, "notifications:")
		userID, err := uuid.Parse(idStr)
		if err != nil {
			log.Printf("Redis relay: bad channel %q", msg.Channel)
			continue
		}

		hub.SendRawToUser(userID, []byte(msg.Payload))
	}
}
