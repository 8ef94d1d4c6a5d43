package memorylife

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex serializes lifecycle passes per (user, character, work) triple
// so a consolidation can never race a concurrent create for the same
// character, without taking a global lock across characters.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the triple and returns its unlock function
func (k *KeyedMutex) Lock(userId, characterId, workId uuid.UUID) func() {
	key := fmt.Sprintf("%s:%s:%s", userId, characterId, workId)

	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
