package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OriginID identifies the realm that created a broadcast. It is minted once
// per realm at initialization and never changes for the realm's lifetime.
type OriginID string

// Payload stamp keys. The origin and target identities ride inside the
// payload so that a relayed envelope keeps the original sender's identity:
// stamps are first-write-wins and a relay hop never overwrites them.
const (
	OriginKey = "_originId"
	TargetKey = "_targetId"
)

// WrapperKey is the single top-level key carrying an envelope on the wire.
// Inbound messages without this key are unrelated traffic and are ignored,
// so the host transport can be shared with other message types.
const WrapperKey = "_broadcast"

// Envelope is the unit of propagation between realms.
//
// OriginID is preserved unchanged across every relay hop. BroadcastIDs is
// append-only: each hop that forwards the envelope appends at most one dedup
// token before sending it onward.
type Envelope struct {
	Type         string   `json:"type"`
	Detail       any      `json:"detail,omitempty"`
	OriginID     OriginID `json:"originId"`
	TargetID     OriginID `json:"targetId,omitempty"`
	BroadcastIDs []string `json:"broadcastIds"`
	Debug        bool     `json:"debug,omitempty"`
}

// DetailMap returns the structured payload, or nil when the detail is absent
// or in its encoded in-transit form.
func (e *Envelope) DetailMap() JSONMap {
	switch v := e.Detail.(type) {
	case JSONMap:
		return v
	case map[string]any:
		return JSONMap(v)
	default:
		return nil
	}
}

// DetailString returns the encoded detail form, if any.
func (e *Envelope) DetailString() (string, bool) {
	s, ok := e.Detail.(string)
	return s, ok
}

// Wrapper is the wire form: the envelope nested under WrapperKey.
type Wrapper struct {
	Broadcast *Envelope `json:"_broadcast,omitempty"`
}

// Wrap builds the wire form for an envelope.
func Wrap(env *Envelope) Wrapper {
	return Wrapper{Broadcast: env}
}

// Valid reports whether the wrapper carries a well-formed envelope.
func (w Wrapper) Valid() bool {
	return w.Broadcast != nil && w.Broadcast.Type != ""
}

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// BroadcastRecord is a journal entry describing one dedupe decision at one
// realm: either the envelope was relayed onward or suppressed as an echo.
// The journal is a diagnostics trail; it never feeds back into propagation.
type BroadcastRecord struct {
	bun.BaseModel `bun:"table:broadcast_journal,alias:bj"`

	RecordMeta

	Event      string  `bun:",notnull" json:"event"`
	OriginID   string  `bun:",notnull" json:"origin_id"`
	TargetID   string  `bun:",nullzero" json:"target_id,omitempty"`
	Token      string  `bun:",nullzero" json:"token,omitempty"`
	Hops       int     `bun:",notnull,default:0" json:"hops"`
	Suppressed bool    `bun:",notnull,default:false" json:"suppressed"`
	Detail     JSONMap `bun:",type:jsonb,nullzero" json:"detail,omitempty"`
}

// JSONMap persists arbitrary payload fields as JSON.
type JSONMap map[string]any

// Clone returns a shallow copy so stamping never mutates caller data.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}
