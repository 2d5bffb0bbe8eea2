package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memLock struct {
	holder string
	until  time.Time
}

type memEntry struct {
	raw     []byte
	expires time.Time
}

// MemorySessionRepo is the fallback store used when Redis is unreachable.
// Records are kept as JSON so callers never share state between requests.
type MemorySessionRepo struct {
	mu    sync.Mutex
	ttl   time.Duration
	data  map[string]memEntry
	locks map[string]memLock
	now   func() time.Time
}

// NewMemorySessionRepo constructs an in-process store.
func NewMemorySessionRepo(ttl time.Duration) *MemorySessionRepo {
	return &MemorySessionRepo{
		ttl:   ttl,
		data:  make(map[string]memEntry),
		locks: make(map[string]memLock),
		now:   time.Now,
	}
}

func (r *MemorySessionRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	r.mu.Lock()
	e, ok := r.data[id]
	if ok && r.now().After(e.expires) {
		delete(r.data, id)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var rec SessionRecord
	if err := json.Unmarshal(e.raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &rec, nil
}

func (r *MemorySessionRepo) Put(ctx context.Context, rec *SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", rec.State.ID, err)
	}
	r.mu.Lock()
	r.data[rec.State.ID] = memEntry{raw: raw, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.data, id)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepo) Lock(ctx context.Context, id, holder string, ttl time.Duration) (Unlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if cur, held := r.locks[id]; held && now.Before(cur.until) {
		return nil, &LockedError{Holder: cur.holder}
	}
	mine := memLock{holder: holder, until: now.Add(ttl)}
	r.locks[id] = mine
	return func(context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.locks[id] == mine {
			delete(r.locks, id)
		}
		return nil
	}, nil
}

// Sweep drops expired records and locks.
func (r *MemorySessionRepo) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, e := range r.data {
		if now.After(e.expires) {
			delete(r.data, id)
			n++
		}
	}
	for id, l := range r.locks {
		if now.After(l.until) {
			delete(r.locks, id)
		}
	}
	return n
}
