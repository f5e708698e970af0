// Package database provides settings persistence using BoltDB.
package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755

	openTimeout = 2 * time.Second

	settingsBucket = "settings"
	keyDebridToken = "debrid_token"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("database is closed")
	// ErrLocked is returned when another process holds the database file.
	ErrLocked = errors.New("database is locked by another process")
)

// Store defines the settings persistence operations.
type Store interface {
	// DebridToken returns the stored token, or "" when none is stored
	DebridToken() (string, error)
	// SetDebridToken stores the token, replacing any previous one
	SetDebridToken(token string) error
	// ClearDebridToken removes the stored token
	ClearDebridToken() error
	// Close closes the database
	Close() error
}

// BoltDB implements Store on a bbolt file.
type BoltDB struct {
	db *bolt.DB
}

// NewBolt opens (creating if needed) the database at dbPath.
func NewBolt(dbPath string) (*BoltDB, error) {
	return OpenBolt(dbPath, openTimeout)
}

// OpenBolt is NewBolt with a custom wait for the file lock, which bbolt holds
// exclusively for as long as the database is open.
func OpenBolt(dbPath string, lockTimeout time.Duration) (*BoltDB, error) {
	if lockTimeout <= 0 {
		lockTimeout = openTimeout
	}
	if dbPath == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: lockTimeout})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("failed to open bolt database: %w: %w", ErrLocked, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(settingsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// Close closes the database connection.
func (s *BoltDB) Close() error {
	return s.db.Close()
}

func (s *BoltDB) DebridToken() (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(settingsBucket))
		if v := b.Get([]byte(keyDebridToken)); v != nil {
			token = string(v)
		}
		return nil
	})
	if err != nil {
		return "", wrap("get debrid token", err)
	}
	return token, nil
}

func (s *BoltDB) SetDebridToken(token string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).Put([]byte(keyDebridToken), []byte(token))
	})
	return wrap("store debrid token", err)
}

func (s *BoltDB) ClearDebridToken() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).Delete([]byte(keyDebridToken))
	})
	return wrap("clear debrid token", err)
}

func wrap(action string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("failed to %s: %w", action, ErrClosed)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
