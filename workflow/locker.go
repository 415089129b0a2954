package workflow

import (
	"context"
	"sync"
)

// KeyLocker serializes work per key. Entries are reference counted and
// removed once no goroutine holds or waits for them.
type KeyLocker struct {
	mutex sync.Mutex
	keys  map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{keys: make(map[string]*keyLock)}
}

// Lock blocks until the key is free or ctx is done. The returned function releases the key.
func (l *KeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mutex.Lock()
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.keys[key] = kl
	}
	kl.refs++
	l.mutex.Unlock()

	select {
	case kl.ch <- struct{}{}:
		return func() {
			<-kl.ch
			l.release(key, kl)
		}, nil
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}
}

func (l *KeyLocker) release(key string, kl *keyLock) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.keys, key)
	}
}

// Len returns the number of keys currently held or awaited.
func (l *KeyLocker) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.keys)
}
