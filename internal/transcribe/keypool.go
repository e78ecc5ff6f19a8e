package transcribe

import (
	"errors"
	"sync"
)

// ErrNoKeys is returned by Acquire on an empty pool.
var ErrNoKeys = errors.New("no API keys available")

// KeyPool rotates a fixed set of credentials round-robin so calls are
// spread across per-key rate-limit buckets.
type KeyPool struct {
	mu     sync.Mutex
	keys   []string
	cursor int
}

// NewKeyPool copies keys into a pool. Empty keys are kept out by the
// config layer; the pool itself accepts whatever it is given.
func NewKeyPool(keys []string) *KeyPool {
	return &KeyPool{keys: append([]string(nil), keys...)}
}

// Acquire returns the next key in insertion order, advancing the
// cursor modulo the pool size. Safe for concurrent callers.
func (p *KeyPool) Acquire() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", ErrNoKeys
	}

	key := p.keys[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.keys)
	return key, nil
}

// Size reports the number of keys in the pool.
func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
