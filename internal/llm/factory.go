package llm

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type clientKey struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// ClientFactory memoizes one ChatClient per (base URL, credential, timeout).
// Concurrent first use of a key constructs the client at most once.
type ClientFactory struct {
	mu      sync.RWMutex
	clients map[clientKey]*ChatClient
	group   singleflight.Group
	opts    []Option
}

// NewClientFactory creates an empty factory. opts are applied to every
// client it builds.
func NewClientFactory(opts ...Option) *ClientFactory {
	return &ClientFactory{
		clients: make(map[clientKey]*ChatClient),
		opts:    opts,
	}
}

// Get returns the cached client for cfg, building it on first use.
func (f *ClientFactory) Get(cfg ModelConfig, timeout time.Duration) (*ChatClient, error) {
	key := clientKey{baseURL: cfg.BaseURL, apiKey: cfg.APIKey, timeout: timeout}

	f.mu.RLock()
	c, ok := f.clients[key]
	f.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := f.group.Do(key.flightKey(), func() (any, error) {
		f.mu.RLock()
		c, ok := f.clients[key]
		f.mu.RUnlock()
		if ok {
			return c, nil
		}

		c, err := NewChatClient(cfg.BaseURL, cfg.APIKey, timeout, f.opts...)
		if err != nil {
			return nil, err
		}

		f.mu.Lock()
		f.clients[key] = c
		f.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	return v.(*ChatClient), nil
}

// Len reports how many clients are cached.
func (f *ClientFactory) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// Reset drops every cached client.
func (f *ClientFactory) Reset() {
	f.mu.Lock()
	f.clients = make(map[clientKey]*ChatClient)
	f.mu.Unlock()
}

func (k clientKey) flightKey() string {
	return fmt.Sprintf("%s\x00%s\x00%d", k.baseURL, k.apiKey, k.timeout)
}
