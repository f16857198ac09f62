package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var registrationsBucket = []byte("registrations")

// Registration is the last registrar call made for a PSID.
type Registration struct {
	PSID        string          `json:"psid"`
	Attempts    int             `json:"attempts"`
	LastAttempt time.Time       `json:"last_attempt"`
	Succeeded   bool            `json:"succeeded"`
	Response    json.RawMessage `json:"response,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Journal records registrar outcomes for operators. It is never consulted before registering.
type Journal interface {
	RecordRegistration(r Registration) error
	GetRegistration(psid string) (*Registration, error)
	Close() error
}

type BoltStore struct {
	db *bolt.DB
}

var _ Journal = (*BoltStore)(nil)

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(registrationsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating registrations bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// RecordRegistration overwrites the stored outcome for r.PSID and bumps its attempt counter.
func (s *BoltStore) RecordRegistration(r Registration) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(registrationsBucket)

		var prev Registration
		if v := b.Get([]byte(r.PSID)); v != nil {
			if err := json.Unmarshal(v, &prev); err != nil {
				return fmt.Errorf("decoding registration %s: %w", r.PSID, err)
			}
		}
		r.Attempts = prev.Attempts + 1

		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return b.Put([]byte(r.PSID), data)
	})
}

func (s *BoltStore) GetRegistration(psid string) (*Registration, error) {
	var r Registration
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(registrationsBucket).Get([]byte(psid))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return nil, err
	}
	if r.PSID == "" {
		return nil, nil
	}
	return &r, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
