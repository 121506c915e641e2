package memory

import (
	"strconv"
	"sync"
	"time"

	"ai-carousel-bot/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(key(session.UserID), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userID int64) (*store.Session, bool) {
	if x, found := r.cache.Get(key(userID)); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// GetOrCreate returns the live session for a user, creating a fresh one when
// none exists or the previous one expired. The create path is guarded so two
// concurrent updates for a new user share one session.
func (r *SessionRepository) GetOrCreate(userID, chatID int64) *store.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, found := r.Get(userID); found {
		return session
	}
	session := store.NewSession(userID, chatID)
	r.Save(session)
	return session
}

func (r *SessionRepository) Delete(userID int64) {
	r.cache.Delete(key(userID))
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
