package memory

import (
	"time"

	"ai-roleplay-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SceneCache keeps hot scene snapshots in process so an exchange does not hit
// the database for a scene it wrote one turn ago. The database row stays the
// source of truth; the service writes through on every update.
type SceneCache struct {
	cache *cache.Cache
}

func NewSceneCache() *SceneCache {
	// Sessions idle for an hour lose their cached scene and fall back to
	// the database on the next exchange
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SceneCache{
		cache: c,
	}
}

func (r *SceneCache) Save(scene *entity.SceneContext) {
	r.cache.Set(scene.SessionId.String(), scene, cache.DefaultExpiration)
}

func (r *SceneCache) Get(sessionId uuid.UUID) (*entity.SceneContext, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(*entity.SceneContext), true
	}
	return nil, false
}

func (r *SceneCache) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
