// Package cache persists inspection results in a local bbolt database keyed
// by the SHA-256 of the archive bytes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "inspections"

// Manager handles cache operations
type Manager struct {
	db     *bolt.DB
	path   string
	logger *logrus.Logger
}

// Stats describes the cache contents.
type Stats struct {
	Path    string `json:"path" yaml:"path"`
	Entries int    `json:"entries" yaml:"entries"`
	Size    int64  `json:"size" yaml:"size"`
}

type record struct {
	Path     string              `json:"path"`
	StoredAt time.Time           `json:"storedAt"`
	Result   *models.ParseResult `json:"result"`
}

// Open opens (creating if needed) the cache database at path.
func Open(path string, logger *logrus.Logger) (*Manager, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmierrors.FileSystemErrorf(err, "failed to create cache directory for %s", path)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmierrors.DatabaseErrorf(err, "failed to open cache %s", path)
	}

	logger.WithField("path", path).Debug("Opened result cache")
	return &Manager{db: db, path: path, logger: logger}, nil
}

// Close releases the database file lock.
func (m *Manager) Close() error {
	return m.db.Close()
}

// Key returns the cache key for the archive at path: the hex SHA-256 of its bytes.
func Key(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmierrors.ArchiveError(err, path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmierrors.ArchiveError(err, path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached result for key. The bool is false on a miss.
func (m *Manager) Get(key string) (*models.ParseResult, bool, error) {
	var rec *record
	err := m.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return nil
		}
		rec = &record{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, false, fmierrors.DatabaseErrorf(err, "failed to read cache entry %s", key)
	}
	if rec == nil || rec.Result == nil {
		return nil, false, nil
	}
	return rec.Result, true, nil
}

// Put stores result under key, replacing any previous entry.
func (m *Manager) Put(key, archivePath string, result *models.ParseResult) error {
	data, err := json.Marshal(record{Path: archivePath, StoredAt: time.Now().UTC(), Result: result})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	err = m.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
	if err != nil {
		return fmierrors.DatabaseErrorf(err, "failed to write cache entry %s", key)
	}
	return nil
}

// Stats reports the number of cached results and the database file size.
func (m *Manager) Stats() (Stats, error) {
	stats := Stats{Path: m.path}
	err := m.db.View(func(tx *bolt.Tx) error {
		stats.Size = tx.Size()
		if bucket := tx.Bucket([]byte(bucketName)); bucket != nil {
			stats.Entries = bucket.Stats().KeyN
		}
		return nil
	})
	if err != nil {
		return stats, fmierrors.DatabaseError(err, "failed to read cache stats")
	}
	return stats, nil
}

// Clear drops every cached result.
func (m *Manager) Clear() error {
	m.logger.WithField("path", m.path).Info("Clearing result cache")

	err := m.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(bucketName))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmierrors.DatabaseError(err, "failed to clear cache")
	}
	return nil
}
