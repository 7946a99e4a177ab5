package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notetaker/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache keeps session documents in Redis so the session middleware
// avoids a Mongo read on every request. Entries expire with the session.
type SessionCache struct {
	client *redis.Client
}

func NewSessionCache(redisURL string) (*SessionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &SessionCache{client: client}, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (sc *SessionCache) SetSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session has already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := sc.client.Set(ctx, sessionKey(session.SessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}
	return nil
}

// GetSession returns (nil, nil) on a cache miss.
func (sc *SessionCache) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := sc.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session from cache: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		sc.DeleteSession(ctx, sessionID)
		return nil, nil
	}
	return &session, nil
}

func (sc *SessionCache) DeleteSession(ctx context.Context, sessionID string) error {
	if err := sc.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session from cache: %w", err)
	}
	return nil
}

func (sc *SessionCache) Close() error {
	return sc.client.Close()
}
