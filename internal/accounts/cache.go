package accounts

import (
	"context"
	"sort"

	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/models"
)

// Resolver looks a fingerprint up in an external account directory. A nil
// identity with a nil error means the fingerprint is unknown.
type Resolver interface {
	Resolve(ctx context.Context, fingerprint string) (*models.Identity, error)
}

// Cache maps fingerprints to identities. It is seeded from a store's accounts
// table and only grows: misses are remembered too so that each unknown
// fingerprint is asked about once per run. Not safe for concurrent use.
type Cache struct {
	resolver   Resolver
	entries    map[string]*models.Identity
	discovered []models.Account
}

func NewCache(seed []models.Account, resolver Resolver) *Cache {
	if resolver == nil {
		resolver = StaticResolver{}
	}
	c := &Cache{
		resolver: resolver,
		entries:  make(map[string]*models.Identity, len(seed)),
	}
	for _, a := range seed {
		id := a.Identity
		c.entries[a.Fingerprint] = &id
	}
	return c
}

// Get consults the cache only.
func (c *Cache) Get(fingerprint string) (*models.Identity, bool) {
	id, ok := c.entries[fingerprint]
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}

// Lookup returns the identity for a fingerprint, asking the resolver on a cache
// miss. It returns nil when the fingerprint cannot be resolved.
func (c *Cache) Lookup(ctx context.Context, fingerprint string) (*models.Identity, error) {
	if id, ok := c.entries[fingerprint]; ok {
		return id, nil
	}

	log := logger.FromContext(ctx).WithPrefix("accounts")
	id, err := c.resolver.Resolve(ctx, fingerprint)
	if err != nil {
		log.Error("failed to resolve fingerprint %s: %v", fingerprint, err)
		return nil, err
	}
	c.entries[fingerprint] = id
	if id == nil {
		log.Debug("fingerprint %s is not linked to an account", fingerprint)
		return nil, nil
	}
	c.discovered = append(c.discovered, models.Account{Fingerprint: fingerprint, Identity: *id})
	log.Debug("resolved fingerprint %s to %s (id=%d)", fingerprint, id.Name, id.ProfileID)
	return id, nil
}

// Discovered returns the accounts resolved during this run, in discovery order.
func (c *Cache) Discovered() []models.Account {
	return append([]models.Account(nil), c.discovered...)
}

// Resolved returns every resolved entry sorted by fingerprint.
func (c *Cache) Resolved() []models.Account {
	out := make([]models.Account, 0, len(c.entries))
	for fp, id := range c.entries {
		if id == nil {
			continue
		}
		out = append(out, models.Account{Fingerprint: fp, Identity: *id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fingerprint < out[j].Fingerprint })
	return out
}

// Len returns the number of cached entries, unresolved ones included.
func (c *Cache) Len() int {
	return len(c.entries)
}

// StaticResolver knows no accounts; it keeps a run fully offline.
type StaticResolver map[string]models.Identity

func (r StaticResolver) Resolve(_ context.Context, fingerprint string) (*models.Identity, error) {
	id, ok := r[fingerprint]
	if !ok {
		return nil, nil
	}
	return &id, nil
}
