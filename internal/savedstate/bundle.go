// Package savedstate keeps the per-screen state that survives a suspend and
// recreate cycle, and persists it across process restarts.
package savedstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"guidekit/internal/session"
	"guidekit/internal/topic"
	"guidekit/pkg/types"
)

// Keys used by the typed helpers.
const (
	KeyTopics  = "topics"
	KeySites   = "sites"
	KeySession = "session"
	KeyQuery   = "query"
)

// ErrNoValue is returned when a bundle holds no value for a key.
var ErrNoValue = errors.New("savedstate: no value")

// Bundle is a string-keyed bag of JSON values. The zero value is empty and
// ready to use.
type Bundle struct {
	values map[string]json.RawMessage
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle { return &Bundle{} }

// Set stores v under key as JSON.
func (b *Bundle) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("savedstate: encode %q: %w", key, err)
	}
	if b.values == nil {
		b.values = make(map[string]json.RawMessage)
	}
	b.values[key] = raw
	return nil
}

// Get decodes the value stored under key into v.
func (b *Bundle) Get(key string, v any) error {
	raw, ok := b.values[key]
	if !ok {
		return ErrNoValue
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("savedstate: decode %q: %w", key, err)
	}
	return nil
}

// Has reports whether key is set.
func (b *Bundle) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Delete removes key.
func (b *Bundle) Delete(key string) { delete(b.values, key) }

// Keys returns the set keys in sorted order.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (b *Bundle) Len() int { return len(b.values) }

// MarshalJSON encodes the bundle as a JSON object.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	if b.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b.values)
}

// UnmarshalJSON replaces the bundle contents.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	b.values = values
	return nil
}

// PutTopics saves a topic tree.
func (b *Bundle) PutTopics(root *topic.Node) error { return b.Set(KeyTopics, root) }

// Topics restores a topic tree saved with PutTopics.
func (b *Bundle) Topics() (*topic.Node, error) {
	raw, ok := b.values[KeyTopics]
	if !ok {
		return nil, ErrNoValue
	}
	return topic.ParseBytes(raw)
}

// PutSites saves a site list.
func (b *Bundle) PutSites(sites []types.Site) error { return b.Set(KeySites, sites) }

// Sites restores a site list saved with PutSites.
func (b *Bundle) Sites() ([]types.Site, error) {
	var sites []types.Site
	if err := b.Get(KeySites, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// PutSession saves a session snapshot.
func (b *Bundle) PutSession(s session.Snapshot) error { return b.Set(KeySession, s) }

// Session restores a snapshot saved with PutSession.
func (b *Bundle) Session() (session.Snapshot, error) {
	var s session.Snapshot
	err := b.Get(KeySession, &s)
	return s, err
}
