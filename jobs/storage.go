package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/buntdb"
)

// TTL is how long job records are kept.
const TTL = time.Hour

var ErrNotFound = errors.New("job not found")

type DB struct {
	instance *buntdb.DB
}

// NewDB opens the job database at path. ":memory:" keeps everything in memory.
func NewDB(path string) (*DB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open job database %v: %w", path, err)
	}
	return &DB{instance: db}, nil
}

func (db *DB) Close() error {
	return db.instance.Close()
}

// StoreJob writes the job, resetting its expiry.
func (db *DB) StoreJob(j Job) error {
	return db.instance.Update(func(tx *buntdb.Tx) error {
		data, err := json.Marshal(j)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(getJobKey(j.ID), string(data), &buntdb.SetOptions{Expires: true, TTL: TTL})
		return err
	})
}

func (db *DB) ReadJob(id string) (Job, error) {
	var j Job
	err := db.instance.View(func(tx *buntdb.Tx) error {
		s, err := tx.Get(getJobKey(id))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(s), &j)
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return j, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return j, err
}

// ReadAll returns every job that has not expired, oldest first.
func (db *DB) ReadAll() ([]Job, error) {
	var all []Job
	err := db.instance.View(func(tx *buntdb.Tx) error {
		var err error
		tx.AscendKeys(getJobKey("*"), func(key, value string) bool {
			var j Job
			if err = json.Unmarshal([]byte(value), &j); err != nil {
				return false
			}
			all = append(all, j)
			return true
		})
		return err
	})
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].CreatedAt.Before(all[b].CreatedAt)
	})
	return all, err
}

func (db *DB) DeleteJob(id string) error {
	err := db.instance.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(getJobKey(id))
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return err
}

func getJobKey(id string) string {
	return fmt.Sprintf("job:%v", id)
}
