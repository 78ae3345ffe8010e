package activities

import (
	"context"
	"os"
	"strings"
	"sync"
)

// SecretProvider resolves provider credentials. Secret storage itself is an
// external collaborator; implementations are injected into the worker at
// construction so the core carries no hidden global state.
type SecretProvider interface {
	GetSecret(ctx context.Context, name, key string) (string, bool)
}

// EnvSecretProvider is the documented local-override path: a secret
// (name, key) resolves to the NAME_KEY environment variable.
type EnvSecretProvider struct{}

func (EnvSecretProvider) GetSecret(_ context.Context, name, key string) (string, bool) {
	envKey := strings.ToUpper(strings.ReplaceAll(name+"_"+key, "-", "_"))
	v := strings.TrimSpace(os.Getenv(envKey))
	return v, v != ""
}

// cachingSecretProvider memoizes successful lookups for the life of the worker
// process so repeated fetches do not hit the secret backend.
type cachingSecretProvider struct {
	inner SecretProvider

	mu   sync.Mutex
	seen map[string]string
}

// NewCachingSecretProvider wraps a provider with process-lifetime memoization.
func NewCachingSecretProvider(inner SecretProvider) SecretProvider {
	return &cachingSecretProvider{inner: inner, seen: map[string]string{}}
}

func (c *cachingSecretProvider) GetSecret(ctx context.Context, name, key string) (string, bool) {
	id := name + "/" + key
	c.mu.Lock()
	if v, ok := c.seen[id]; ok {
		c.mu.Unlock()
		return v, true
	}
	c.mu.Unlock()

	v, ok := c.inner.GetSecret(ctx, name, key)
	if !ok {
		return "", false
	}
	c.mu.Lock()
	c.seen[id] = v
	c.mu.Unlock()
	return v, true
}
