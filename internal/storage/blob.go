package storage

import (
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidKey = errors.New("invalid blob key")
	ErrNotFound   = errors.New("blob not found")
)

// Info describes a stored blob.
type Info struct {
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// BlobStore holds datasets (boundary topology, financial CSV, loan samples)
// and rendered snapshots under slash-separated keys.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Stat(key string) (Info, error)
	List(prefix string) ([]Info, error)
}
