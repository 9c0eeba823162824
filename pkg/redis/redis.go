package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"DriveThruGolang/internal/entity"
)

const menuSnapshotKey = "menu:snapshot"

type IRedis interface {
	SetMenuSnapshot(ctx context.Context, snapshot *entity.MenuSnapshot, expiration time.Duration) error
	GetMenuSnapshot(ctx context.Context) (*entity.MenuSnapshot, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetMenuSnapshot(ctx context.Context, snapshot *entity.MenuSnapshot, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Caching menu snapshot with expiration %v", expiration))

	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(snapshot)
	if err != nil {
		logrus.Error(fmt.Sprintf("Error encoding menu snapshot: %v", err))
		return err
	}

	if err := r.client.Set(ctx, menuSnapshotKey, payload, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching menu snapshot: %v", err))
		return err
	}

	logrus.Debug("Successfully cached menu snapshot")
	return nil
}

// GetMenuSnapshot returns (nil, nil) on a cache miss.
func (r *redisClient) GetMenuSnapshot(ctx context.Context) (*entity.MenuSnapshot, error) {
	val, err := r.client.Get(ctx, menuSnapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug("Menu snapshot not found in cache")
		return nil, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting menu snapshot: %v", err))
		return nil, err
	}

	var snapshot entity.MenuSnapshot
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(val, &snapshot); err != nil {
		logrus.Error(fmt.Sprintf("Error decoding cached menu snapshot: %v", err))
		return nil, err
	}

	logrus.Debug("Successfully got menu snapshot from cache")
	return &snapshot, nil
}
