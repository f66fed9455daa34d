package services

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/singleflight"

	"github.com/careervault/vault/internal/gateway"
)

// refresh this far before the remote-declared expiry so a handed-out link is
// never already dying when the preview renders
const defaultExpiryMargin = 15 * time.Second

// SignedUrlCache maps a resume id to its current previewable URL, fetched
// lazily and independently per resume. Concurrent resolves for the same id
// share a single in-flight fetch. A failed resolve leaves no entry, so a
// later retry is always possible.
type SignedUrlCache struct {
	gateway gateway.SyncGateway
	margin  time.Duration

	mu      sync.Mutex
	entries map[string]gateway.SignedURL
	group   singleflight.Group
}

func NewSignedUrlCache(gw gateway.SyncGateway) *SignedUrlCache {
	return &SignedUrlCache{
		gateway: gw,
		margin:  defaultExpiryMargin,
		entries: map[string]gateway.SignedURL{},
	}
}

// Resolve returns a previewable URL for the resume, from cache when a live
// entry exists and through the gateway otherwise.
func (c *SignedUrlCache) Resolve(ctx context.Context, resumeID string) (string, error) {
	c.mu.Lock()
	entry, ok := c.entries[resumeID]
	c.mu.Unlock()
	if ok && time.Until(entry.ExpiresAt) > c.margin {
		return entry.URL, nil
	}

	url, err, shared := c.group.Do(resumeID, func() (any, error) {
		signed, err := c.gateway.SignedResumeURL(ctx, resumeID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[resumeID] = signed
		c.mu.Unlock()
		return signed.URL, nil
	})
	if err != nil {
		glog.V(1).Infof("[urlcache]resolve %s failed: %v", resumeID, err)
		return "", err
	}
	if shared {
		glog.V(2).Infof("[urlcache]resolve %s joined in-flight fetch", resumeID)
	}
	return url.(string), nil
}

// Invalidate drops the cached entry for a resume. Called on resume deletion
// so no stale preview renders afterwards; the next Resolve fetches fresh.
func (c *SignedUrlCache) Invalidate(resumeID string) {
	c.mu.Lock()
	delete(c.entries, resumeID)
	c.mu.Unlock()
	c.group.Forget(resumeID)
}
