// Package snapshot captures the HTML of a mounted tree and keeps it in a
// store, for golden comparisons and for the devtools inspector.
package snapshot

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/hooks"
	"github.com/vango-dev/vlite/pkg/runtime"
)

// ErrNotFound is returned when a snapshot doesn't exist.
var ErrNotFound = errors.New("snapshot: not found")

// ErrInvalidKey is returned for keys outside [A-Za-z0-9._-] or with "..".
var ErrInvalidKey = errors.New("snapshot: invalid key")

// Snapshot is the serialized live tree of one root.
type Snapshot struct {
	Key        string    `json:"key"`
	Root       string    `json:"root"`
	HTML       string    `json:"-"`
	Components int       `json:"components"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores s under s.Key, replacing an existing snapshot.
	Save(ctx context.Context, s *Snapshot) error

	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) (*Snapshot, error)

	// List returns the stored keys in lexical order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the snapshot under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidKey reports whether key can name a snapshot.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key) && key != "." && !strings.Contains(key, "..")
}

// Capture serializes the container of rt under key.
func Capture(rt *runtime.Runtime, key string) (*Snapshot, error) {
	if !ValidKey(key) {
		return nil, ErrInvalidKey
	}
	s := &Snapshot{Key: key, CreatedAt: time.Now().UTC()}
	var mounted bool
	rt.Inspect(func(container dom.Element, host *hooks.Host) {
		if container == nil {
			return
		}
		mounted = true
		s.HTML = dom.InnerHTML(container)
		s.Components = len(host.Owners())
	})
	if !mounted {
		return nil, errors.New("snapshot: nothing mounted")
	}
	s.Root = rt.RootName()
	return s, nil
}

// Take captures rt and saves the snapshot in store.
func Take(ctx context.Context, store Store, rt *runtime.Runtime, key string) (*Snapshot, error) {
	s, err := Capture(rt, key)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
