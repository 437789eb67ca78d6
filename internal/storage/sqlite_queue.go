package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

// EnqueueMutation appends a mutation to the queue collection. The sequence
// number is assigned by the database (AUTOINCREMENT) so insertion order is
// preserved even across processes sharing the same file.
func (s *SQLiteStore) EnqueueMutation(m models.Mutation) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	var payload interface{}
	if len(m.Payload) > 0 {
		payload = string(m.Payload)
	}

	result, err := s.db.Exec(`
		INSERT INTO mutation_queue (id, op, entity, entity_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.Op), string(m.Entity), m.EntityID, payload,
		m.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// QueueSnapshot returns a read-only copy of all pending mutations in
// sequence order. Entries are not removed; ConfirmReplayed does that once
// the remote acknowledges them.
func (s *SQLiteStore) QueueSnapshot() ([]models.Mutation, error) {
	rows, err := s.db.Query(`
		SELECT seq, id, op, entity, entity_id, payload, created_at
		FROM mutation_queue ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []models.Mutation
	for rows.Next() {
		var m models.Mutation
		var op, entity, createdAt string
		var payload *string

		if err := rows.Scan(&m.Seq, &m.ID, &op, &entity, &m.EntityID, &payload, &createdAt); err != nil {
			return nil, err
		}

		m.Op = constants.MutationOp(op)
		m.Entity = constants.EntityKind(entity)
		if payload != nil {
			m.Payload = []byte(*payload)
		}
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for mutation %s: %w", m.ID, err)
		}

		pending = append(pending, m)
	}

	return pending, rows.Err()
}

// ConfirmReplayed removes the given queue entries after the sync engine
// confirms remote acknowledgment.
func (s *SQLiteStore) ConfirmReplayed(seqs []int64) error {
	if len(seqs) == 0 {
		return nil
	}

	placeholders := make([]string, len(seqs))
	args := make([]interface{}, len(seqs))
	for i, seq := range seqs {
		placeholders[i] = "?"
		args[i] = seq
	}

	_, err := s.db.Exec(
		fmt.Sprintf("DELETE FROM mutation_queue WHERE seq IN (%s)", strings.Join(placeholders, ", ")),
		args...)
	return err
}

func (s *SQLiteStore) QueueDepth() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM mutation_queue").Scan(&count)
	return count, err
}

// HasPendingFor reports whether any queued mutation targets the given
// entity kind. The sync engine uses this to keep per-entity FIFO order:
// a fresh write must queue behind earlier unacknowledged ones.
func (s *SQLiteStore) HasPendingFor(entity constants.EntityKind) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM mutation_queue WHERE entity = ?", string(entity)).Scan(&count)
	return count > 0, err
}
