package provider

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"infuranode/internal/chain"
)

// Cache holds open provider handles keyed by endpoint. Eviction closes
// the displaced handle's connection.
type Cache struct {
	mu      sync.Mutex
	handles *lru.Cache[string, *Provider]
	dial    func(ctx context.Context, network chain.Network, creds chain.Credentials, logger zerolog.Logger) (*Provider, error)
	logger  zerolog.Logger
}

// NewCache creates a handle cache of the given size.
func NewCache(size int, logger zerolog.Logger) (*Cache, error) {
	c := &Cache{
		dial:   Dial,
		logger: logger.With().Str("component", "providercache").Logger(),
	}

	handles, err := lru.NewWithEvict(size, func(endpoint string, p *Provider) {
		c.logger.Debug().Str("endpoint", endpoint).Msg("closing evicted provider handle")
		p.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider cache: %w", err)
	}
	c.handles = handles
	return c, nil
}

// Get returns a cached handle for the network and credentials, dialing a
// new one on miss. Credentials are validated before any dial. Lookup and
// dial happen under one lock so that concurrent first touches of the same
// endpoint share a single handle instead of leaking the displaced one.
func (c *Cache) Get(ctx context.Context, network chain.Network, creds chain.Credentials) (*Provider, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	endpoint := network.RPCEndpoint(creds.ProjectID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.handles.Get(endpoint); ok {
		return p, nil
	}

	p, err := c.dial(ctx, network, creds, c.logger)
	if err != nil {
		return nil, err
	}
	c.handles.Add(endpoint, p)
	return p, nil
}

// Close evicts and closes every cached handle.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles.Purge()
}
