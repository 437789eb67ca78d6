package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uniplan/uniplan/internal/constants"
)

// Mutation is one not-yet-acknowledged write waiting in the pending queue.
// Seq is assigned by the store on enqueue and fixes replay order; ID is a
// client-generated uuid so that replaying the same mutation twice after a
// crash mid-sync cannot duplicate remote records.
type Mutation struct {
	Seq       int64                `json:"seq"`
	ID        string               `json:"id"`
	Op        constants.MutationOp `json:"op"`
	Entity    constants.EntityKind `json:"entity"`
	EntityID  string               `json:"entity_id"`
	Payload   json.RawMessage      `json:"payload,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewMutation builds a queueable mutation carrying the full entity snapshot
// as payload. Replay is an upsert, so the newest snapshot wins regardless of
// how many intermediate snapshots were queued.
func NewMutation(op constants.MutationOp, entity constants.EntityKind, entityID string, payload any) (Mutation, error) {
	m := Mutation{
		ID:        uuid.New().String(),
		Op:        op,
		Entity:    entity,
		EntityID:  entityID,
		CreatedAt: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Mutation{}, fmt.Errorf("failed to encode mutation payload: %w", err)
		}
		m.Payload = data
	}

	if err := m.Validate(); err != nil {
		return Mutation{}, err
	}
	return m, nil
}

func (m *Mutation) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("mutation id cannot be empty")
	}
	if !m.Op.Valid() {
		return fmt.Errorf("unknown mutation op %q", m.Op)
	}
	if !m.Entity.Valid() {
		return fmt.Errorf("unknown entity kind %q", m.Entity)
	}
	if m.EntityID == "" {
		return fmt.Errorf("mutation entity id cannot be empty")
	}
	if m.Op != constants.OpDelete && len(m.Payload) == 0 {
		return fmt.Errorf("%s mutation requires a payload", m.Op)
	}
	return nil
}
