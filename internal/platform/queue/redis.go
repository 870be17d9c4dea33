package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"courseboard/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// ConnectRedis dials the queue backend and verifies it with a ping.
func ConnectRedis() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	log.Println("INFO: Connected to Redis")
	return nil
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		log.Println("INFO: Redis connection closed")
	}
}
