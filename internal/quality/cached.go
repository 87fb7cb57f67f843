package quality

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/thoreinstein/canon/internal/errors"
)

// Cached memoizes successful outcomes of another evaluator, keyed by a hash
// of the evaluated text. Failures are not cached.
type Cached struct {
	next  Evaluator
	cache *lru.Cache[string, Outcome]
}

// NewCached wraps next with an LRU cache holding up to size outcomes.
func NewCached(next Evaluator, size int) (*Cached, error) {
	cache, err := lru.New[string, Outcome](size)
	if err != nil {
		return nil, errors.Wrapf(err, "creating evaluation cache of size %d", size)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Name() string { return "cached:" + c.next.Name() }

func (c *Cached) Evaluate(ctx context.Context, text string) Outcome {
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])
	if out, ok := c.cache.Get(key); ok {
		return out
	}
	out := c.next.Evaluate(ctx, text)
	if out.Status == StatusOK {
		c.cache.Add(key, out)
	}
	return out
}

// Len reports the number of cached outcomes.
func (c *Cached) Len() int { return c.cache.Len() }
