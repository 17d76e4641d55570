package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNoCredential is returned by Store.Credential when nothing is stored.
var ErrNoCredential = errors.New("no such credential")

const bucketCredentials = "credentials"

// Store keeps secrets keyed by service and account.
type Store interface {
	Credential(service, account string) (string, error)
	SetCredential(service, account, secret string) error
	DelCredential(service, account string) error
	Close() error
}

func credentialKey(service, account string) []byte {
	return []byte(service + "-" + account)
}

type dbStore struct {
	db *bolt.DB
}

// OpenStore opens, creating when needed, a bbolt credential database.
func OpenStore(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCredentials))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize credential store: %w", err)
	}
	return &dbStore{db: db}, nil
}

func (s *dbStore) Credential(service, account string) (string, error) {
	var secret string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCredentials))
		v := b.Get(credentialKey(service, account))
		if v == nil {
			return ErrNoCredential
		}
		secret = string(v)
		return nil
	})
	return secret, err
}

func (s *dbStore) SetCredential(service, account, secret string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCredentials))
		return b.Put(credentialKey(service, account), []byte(secret))
	})
}

func (s *dbStore) DelCredential(service, account string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCredentials))
		return b.Delete(credentialKey(service, account))
	})
}

func (s *dbStore) Close() error {
	return s.db.Close()
}

type memStore struct {
	mu      sync.Mutex
	secrets map[string]string
}

// NewMemoryStore returns a Store that forgets everything on exit.
func NewMemoryStore() Store {
	return &memStore{secrets: make(map[string]string)}
}

func (s *memStore) Credential(service, account string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.secrets[string(credentialKey(service, account))]
	if !ok {
		return "", ErrNoCredential
	}
	return v, nil
}

func (s *memStore) SetCredential(service, account, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[string(credentialKey(service, account))] = secret
	return nil
}

func (s *memStore) DelCredential(service, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, string(credentialKey(service, account)))
	return nil
}

func (s *memStore) Close() error { return nil }
