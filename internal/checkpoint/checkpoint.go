// Package checkpoint implements round checkpoint/resume (SPEC_FULL.md's
// supplemented checkpoint feature, --checkpoint FILE), adapted from the
// teacher's services/orchestrator bbolt-backed WorkflowStore: a single
// bucket keyed by round number, JSON-encoded round state, opened once
// per run and closed on exit.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketRounds = []byte("rounds")

// Round is the persisted state of one completed PrivateMiner round:
// enough to resume forbidding and to re-emit the trace line, but not
// the RNG stream itself; a resumed run seeds its RNG from the configured
// seed as a fresh run does.
type Round struct {
	Round     int     `json:"round"`
	Positions []int   `json:"positions"`
	Values    []int   `json:"values"`
	MinV      float64 `json:"min_v"`
}

// Store is a bbolt-backed append-style log of completed rounds.
type Store struct {
	db *bbolt.DB
}

// Open creates or reuses a checkpoint file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open checkpoint store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRounds)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create checkpoint bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the checkpoint file.
func (s *Store) Close() error { return s.db.Close() }

// Put persists one completed round, keyed by its round number.
func (s *Store) Put(r Round) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRounds).Put(roundKey(r.Round), data)
	})
}

// Completed returns every round persisted so far, ordered by round
// number, so a resumed run can rebuild its ForbiddenSet before
// continuing from the next round.
func (s *Store) Completed() ([]Round, error) {
	var rounds []Round
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRounds).ForEach(func(_, v []byte) error {
			var r Round
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			rounds = append(rounds, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rounds, nil
}

func roundKey(round int) []byte {
	return []byte(fmt.Sprintf("%08d", round))
}
