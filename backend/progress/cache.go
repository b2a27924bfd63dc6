package progress

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	moduleListKeyPrefix = "roadmap:modules:"
	moduleListTTL       = time.Hour
)

// CachedEnrollmentStore caches ordered module lists in Redis in front of
// another EnrollmentStore. Cache misses and Redis failures fall through to
// the wrapped store; module lists are reference data so a 1h TTL is enough
// to pick up authoring changes.
type CachedEnrollmentStore struct {
	next   EnrollmentStore
	client *redis.Client
	ctx    context.Context
	logger *log.Logger
}

func NewCachedEnrollmentStore(next EnrollmentStore, client *redis.Client, logger *log.Logger) *CachedEnrollmentStore {
	return &CachedEnrollmentStore{
		next:   next,
		client: client,
		ctx:    context.Background(),
		logger: logger,
	}
}

func (s *CachedEnrollmentStore) ListModules(roadmapID uint) []ModuleRef {
	key := moduleListKeyPrefix + strconv.FormatUint(uint64(roadmapID), 10)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == nil {
		var refs []ModuleRef
		if err := json.Unmarshal([]byte(data), &refs); err == nil {
			return refs
		}
	} else if err != redis.Nil && s.logger != nil {
		s.logger.Printf("module list cache get %s: %v", key, err)
	}

	refs := s.next.ListModules(roadmapID)
	if len(refs) == 0 {
		// Never cache a degraded read.
		return refs
	}

	if data, err := json.Marshal(refs); err == nil {
		if err := s.client.Set(s.ctx, key, data, moduleListTTL).Err(); err != nil && s.logger != nil {
			s.logger.Printf("module list cache set %s: %v", key, err)
		}
	}
	return refs
}

func (s *CachedEnrollmentStore) ModuleTitle(roadmapID, moduleID uint) string {
	for _, ref := range s.ListModules(roadmapID) {
		if ref.ID == moduleID {
			if ref.Title == "" {
				return FallbackModuleTitle
			}
			return ref.Title
		}
	}
	return s.next.ModuleTitle(roadmapID, moduleID)
}

// Invalidate drops the cached module list for a roadmap, called after
// authoring writes.
func (s *CachedEnrollmentStore) Invalidate(roadmapID uint) {
	key := moduleListKeyPrefix + strconv.FormatUint(uint64(roadmapID), 10)
	if err := s.client.Del(s.ctx, key).Err(); err != nil && s.logger != nil {
		s.logger.Printf("module list cache del %s: %v", key, err)
	}
}
