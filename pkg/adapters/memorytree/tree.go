// Package memorytree simulates a tree of isolated realms inside one process.
// It implements both the topology and transport collaborators, which makes
// the full propagation protocol testable without a browser-like host: each
// realm gets a bound transport that knows who the sender is, deliveries run
// synchronously on the sender's goroutine, and realms can be marked as
// denying inbound traffic to simulate a trust boundary.
package memorytree

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/topology"
	"github.com/goliatone/go-broadcast/pkg/interfaces/transport"
)

// ErrDelivery is returned when the target realm rejects inbound messages.
var ErrDelivery = errors.New("memorytree: delivery rejected")

// Tree holds the realms and answers topology and delivery questions.
type Tree struct {
	mu     sync.RWMutex
	realms map[string]*Realm
}

// Realm is one simulated execution context.
type Realm struct {
	id       string
	tree     *Tree
	parent   *Realm
	children []*Realm
	handler  transport.Handler
	denied   bool
}

var (
	_ topology.Realm    = (*Realm)(nil)
	_ topology.Topology = (*Tree)(nil)
)

// New returns an empty tree.
func New() *Tree {
	return &Tree{realms: make(map[string]*Realm)}
}

// NewRoot creates a top-level realm.
func (t *Tree) NewRoot(id string) (*Realm, error) {
	return t.add(id, nil)
}

// Spawn embeds a new child realm under r.
func (r *Realm) Spawn(id string) (*Realm, error) {
	return r.tree.add(id, r)
}

func (t *Tree) add(id string, parent *Realm) (*Realm, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == "" {
		return nil, errors.New("memorytree: realm id is required")
	}
	if _, exists := t.realms[id]; exists {
		return nil, fmt.Errorf("memorytree: realm %q already exists", id)
	}
	realm := &Realm{id: id, tree: t, parent: parent}
	if parent != nil {
		parent.children = append(parent.children, realm)
	}
	t.realms[id] = realm
	return realm, nil
}

// ID implements topology.Realm.
func (r *Realm) ID() string { return r.id }

// Attach registers the inbound message handler for this realm.
func (r *Realm) Attach(h transport.Handler) {
	r.tree.mu.Lock()
	defer r.tree.mu.Unlock()
	r.handler = h
}

// Deny toggles inbound rejection, simulating a cross-trust-boundary realm.
func (r *Realm) Deny(deny bool) {
	r.tree.mu.Lock()
	defer r.tree.mu.Unlock()
	r.denied = deny
}

// Transport returns a transport bound to r as the sender.
func (r *Realm) Transport() transport.Transport {
	return boundTransport{from: r}
}

// Parent implements topology.Topology.
func (t *Tree) Parent(r topology.Realm) (topology.Realm, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	realm := t.realms[r.ID()]
	if realm == nil || realm.parent == nil {
		return nil, false
	}
	return realm.parent, true
}

// Children implements topology.Topology.
func (t *Tree) Children(r topology.Realm) []topology.Realm {
	t.mu.RLock()
	defer t.mu.RUnlock()

	realm := t.realms[r.ID()]
	if realm == nil {
		return nil
	}
	out := make([]topology.Realm, len(realm.children))
	for i, child := range realm.children {
		out[i] = child
	}
	return out
}

// IsSelf implements topology.Topology.
func (t *Tree) IsSelf(a, b topology.Realm) bool {
	return a != nil && b != nil && a.ID() == b.ID()
}

type boundTransport struct {
	from *Realm
}

var _ transport.Transport = boundTransport{}

// Send delivers the wrapper to the target realm's handler on the caller's
// goroutine. Denied realms reject with ErrDelivery; realms without a handler
// swallow the message, matching a best-effort one-way channel.
func (bt boundTransport) Send(ctx context.Context, to topology.Realm, w domain.Wrapper) error {
	if to == nil {
		return nil
	}
	tree := bt.from.tree

	tree.mu.RLock()
	target := tree.realms[to.ID()]
	var handler transport.Handler
	denied := false
	if target != nil {
		handler = target.handler
		denied = target.denied
	}
	tree.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("memorytree: unknown realm %q", to.ID())
	}
	if denied {
		return fmt.Errorf("%w: realm %q denies inbound messages", ErrDelivery, to.ID())
	}
	if handler == nil {
		return nil
	}
	handler(ctx, bt.from, w)
	return nil
}
