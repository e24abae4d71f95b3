package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const (
	sessionKeyPrefix = "session:"
	liveSessionsKey  = "sessions:live"
)

type SessionRepository interface {
	Save(ctx context.Context, snapshot entity.SessionSnapshot) error
	GetByID(ctx context.Context, id entity.SessionID) (*entity.SessionSnapshot, error)
	DeleteByID(ctx context.Context, id entity.SessionID) error
	List(ctx context.Context) ([]entity.SessionSnapshot, error)
	DeleteAll(ctx context.Context) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func sessionKey(id entity.SessionID) string {
	return sessionKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

// Save - stores the snapshot and adds it to the live set.
func (that *dbSession) Save(ctx context.Context, snapshot entity.SessionSnapshot) error {
	sessionJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	key := sessionKey(snapshot.ID)

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, sessionJSON, 0)
		pipe.SAdd(ctx, liveSessionsKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id entity.SessionID) (*entity.SessionSnapshot, error) {
	response, err := that.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var snapshot entity.SessionSnapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &snapshot, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id entity.SessionID) error {
	key := sessionKey(id)

	var deleted *redis.IntCmd

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, key)
		pipe.SRem(ctx, liveSessionsKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted.Val() == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}

// List - returns every live session ordered by id. Set members whose key is gone are skipped.
func (that *dbSession) List(ctx context.Context) ([]entity.SessionSnapshot, error) {
	keys, err := that.client.SMembers(ctx, liveSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list live sessions: %w", err)
	}

	if len(keys) == 0 {
		return []entity.SessionSnapshot{}, nil
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get live sessions: %w", err)
	}

	sessions := make([]entity.SessionSnapshot, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var snapshot entity.SessionSnapshot
		if err = json.Unmarshal([]byte(raw), &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}

		sessions = append(sessions, snapshot)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})

	return sessions, nil
}

// DeleteAll - removes every live session and the set itself.
func (that *dbSession) DeleteAll(ctx context.Context) error {
	keys, err := that.client.SMembers(ctx, liveSessionsKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list live sessions: %w", err)
	}

	if err = that.client.Del(ctx, append(keys, liveSessionsKey)...).Err(); err != nil {
		return fmt.Errorf("failed to delete live sessions: %w", err)
	}

	return nil
}
