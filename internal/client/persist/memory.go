package persist

import (
	"bytes"
	"context"
	"sync"
)

// MemoryBackend keeps everything in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	state map[string]Envelope
	meta  map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		state: make(map[string]Envelope),
		meta:  make(map[string][]byte),
	}
}

func (m *MemoryBackend) Load(_ context.Context, namespace string) (Envelope, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	env, ok := m.state[namespace]
	if ok {
		env.Payload = bytes.Clone(env.Payload)
	}
	return env, ok, nil
}

func (m *MemoryBackend) Save(_ context.Context, env Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	env.Payload = bytes.Clone(env.Payload)
	m.state[env.Namespace] = env
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.state, namespace)
	return nil
}

func (m *MemoryBackend) GetMeta(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return bytes.Clone(m.meta[key]), nil
}

func (m *MemoryBackend) SetMeta(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.meta[key] = bytes.Clone(value)
	return nil
}

func (m *MemoryBackend) DeleteMeta(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.meta, key)
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = make(map[string]Envelope)
	m.meta = make(map[string][]byte)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
