package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotline/pkg/config"
	"slotline/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const SlotLockCollectionName = "Slot_locks"

// SlotLockRepository provides short-lived advisory locks backed by unique
// _id inserts. Create fails with ErrLockNotAcquired when another request
// holds any of the same keys; a TTL index on expires_at reaps stale locks
// left behind by crashed processes.
type SlotLockRepository interface {
	Create(ctx context.Context, keys []string, ttl time.Duration) error
	Delete(ctx context.Context, keys []string) error
}

var ErrLockNotAcquired = fmt.Errorf("slot lock not acquired")

// LockConflictError names the key an acquisition attempt collided on, so
// callers can tell a service-capacity collision from a per-user one. It
// matches ErrLockNotAcquired under errors.Is.
type LockConflictError struct {
	Key string
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("slot lock not acquired: %s is held", e.Key)
}

func (e *LockConflictError) Unwrap() error {
	return ErrLockNotAcquired
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(SlotLockCollectionName),
	}
}

func (r *mongoSlotLockRepository) Create(ctx context.Context, keys []string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		docs = append(docs, model.SlotLock{
			ID:        key,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
	}

	// Ordered inserts stop at the first duplicate, so on contention only
	// the prefix before the collision was inserted. Release exactly that
	// prefix; the colliding key belongs to the other holder.
	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			idx := collidingIndex(err, keys)
			if idx > 0 {
				_ = r.Delete(context.WithoutCancel(ctx), keys[:idx])
			}
			if idx >= 0 {
				return &LockConflictError{Key: keys[idx]}
			}
			return ErrLockNotAcquired
		}
		return fmt.Errorf("failed to create slot locks: %w", err)
	}
	return nil
}

// collidingIndex extracts the position of the duplicate key from the bulk
// write error, or -1 when the error shape is unrecognized. In the latter
// case cleanup is left to the TTL index rather than risk releasing the
// other holder's locks.
func collidingIndex(err error, keys []string) int {
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
		idx := bwe.WriteErrors[0].Index
		if idx >= 0 && idx < len(keys) {
			return idx
		}
	}
	return -1
}

func (r *mongoSlotLockRepository) Delete(ctx context.Context, keys []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return fmt.Errorf("failed to delete slot locks: %w", err)
	}
	return nil
}
