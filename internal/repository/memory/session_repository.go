package memory

import (
	"ai-examcoach-be/pkg/assistant"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the in-memory agent store behind the session registry.
// Sessions are purely in-process and lost on restart by design. Entries never
// expire: abandoned-session TTL is an open product decision, and go-cache's
// expiration argument is where it would land.
type SessionRepository struct {
	cache *cache.Cache
}

var _ assistant.AgentStore = &SessionRepository{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionRepository) Save(sessionId string, agent *assistant.Agent) {
	r.cache.Set(sessionId, agent, cache.NoExpiration)
}

func (r *SessionRepository) Get(sessionId string) (*assistant.Agent, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*assistant.Agent), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
