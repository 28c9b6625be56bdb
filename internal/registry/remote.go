package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/vk/platformctl/internal/ctxlog"
	"resty.dev/v3"
)

// remoteEntry is the wire shape of one component type served by a registry
// service: GET {base}/types/{componentType}.
type remoteEntry struct {
	Type         string          `json:"type"`
	Schema       json.RawMessage `json:"schema"`
	Fallbacks    map[string]any  `json:"hardcodedFallbacks"`
	Capabilities []string        `json:"capabilities"`
}

// Remote looks up component types from a registry service. Retries for a
// flaky registry belong here, not in the resolution pipeline, so the client
// carries its own retry policy. Fetched entries are cached for the lifetime
// of the command; remote entries have no Normalize hook.
type Remote struct {
	client *resty.Client

	mu    sync.Mutex
	cache map[string]*Entry
}

// NewRemote creates a Remote against the given base URL.
func NewRemote(baseURL string) *Remote {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &Remote{client: client, cache: make(map[string]*Entry)}
}

// Close releases the underlying HTTP client.
func (r *Remote) Close() error { return r.client.Close() }

// Lookup fetches the entry for a component type. A 404 maps to
// UnknownComponentTypeError so a layered source can fall through.
func (r *Remote) Lookup(ctx context.Context, componentType string) (*Entry, error) {
	r.mu.Lock()
	cached, ok := r.cache[componentType]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fetching component type from remote registry.", "type", componentType)

	var payload remoteEntry
	res, err := r.client.R().
		SetContext(ctx).
		SetResult(&payload).
		SetPathParam("componentType", componentType).
		Get("/types/{componentType}")
	if err != nil {
		return nil, fmt.Errorf("remote registry lookup of %q: %w", componentType, err)
	}
	if res.StatusCode() == 404 {
		return nil, &UnknownComponentTypeError{ComponentType: componentType}
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("remote registry lookup of %q: unexpected status %s", componentType, res.Status())
	}

	entry := &Entry{
		Type:         componentType,
		Schema:       string(payload.Schema),
		Fallbacks:    payload.Fallbacks,
		Capabilities: payload.Capabilities,
	}
	if entry.Fallbacks == nil {
		entry.Fallbacks = map[string]any{}
	}

	r.mu.Lock()
	r.cache[componentType] = entry
	r.mu.Unlock()
	return entry, nil
}

// Layered chains sources: the first one that resolves a type wins, and an
// UnknownComponentTypeError falls through to the next source.
type Layered []Source

// Lookup implements Source.
func (l Layered) Lookup(ctx context.Context, componentType string) (*Entry, error) {
	var lastErr error
	for _, src := range l {
		entry, err := src.Lookup(ctx, componentType)
		if err == nil {
			return entry, nil
		}
		lastErr = err
		if _, notFound := err.(*UnknownComponentTypeError); notFound {
			continue
		}
		return nil, err
	}
	if lastErr == nil {
		lastErr = &UnknownComponentTypeError{ComponentType: componentType}
	}
	return nil, lastErr
}
