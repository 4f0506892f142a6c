// Package store implements the outward-facing Database: the append-only
// data file (trivial, per spec.md) sitting in front of the btree
// package's index, tied together with SHA-256 content addressing.
package store

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/skogkatt/wasteisland/common"
	"github.com/skogkatt/wasteisland/hash"
	"github.com/skogkatt/wasteisland/offset"
)

const (
	dataFileName  = "data"
	indexFileName = "index"
	lengthSize    = 8 // little-endian, matching the index file's integer width
)

// Database is a content-addressed key-value store over one directory:
// put(bytes) -> hex hash, get(hex hash) -> bytes.
type Database struct {
	path     string
	dataFile *os.File
	index    *indexer
	log      *zap.Logger
}

// Open creates or opens a database at cfg.Path.
func Open(cfg Config) (*Database, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, common.Wrap("create database directory", err)
	}

	dataFile, err := os.OpenFile(filepath.Join(cfg.Path, dataFileName), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, common.Wrap("open data file", err)
	}

	idx, err := openIndexer(filepath.Join(cfg.Path, indexFileName), log)
	if err != nil {
		dataFile.Close()
		return nil, err
	}

	return &Database{path: cfg.Path, dataFile: dataFile, index: idx, log: log}, nil
}

// Put appends payload to the data file and indexes it under its
// SHA-256 hash, returning that hash as 64 lowercase hex characters.
// Calling Put twice with the same payload is safe: the second append is
// wasted space but the hash and retrievability are identical.
func (d *Database) Put(payload []byte) (string, error) {
	off, err := d.appendPayload(payload)
	if err != nil {
		return "", common.Wrap("append payload to data file", err)
	}

	h := hash.Sum(payload)
	if err := d.index.put(h, off); err != nil {
		return "", common.Wrap("index waste", err)
	}
	d.log.Debug("stored waste", zap.String("hash", h.String()), zap.Int("bytes", len(payload)))
	return h.String(), nil
}

// appendPayload writes the length-prefixed record and returns the
// offset of its length field.
func (d *Database) appendPayload(payload []byte) (offset.Offset, error) {
	off, err := d.dataFile.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	var header [lengthSize]byte
	binary.LittleEndian.PutUint64(header[:], uint64(len(payload)))
	if _, err := d.dataFile.Write(header[:]); err != nil {
		return 0, err
	}
	if _, err := d.dataFile.Write(payload); err != nil {
		return 0, err
	}
	return offset.Offset(off), nil
}

// Get returns the bytes stored under hexHash, or an error wrapping
// common.ErrHashNotFound if nothing is stored there.
func (d *Database) Get(hexHash string) ([]byte, error) {
	h, err := hash.Parse(hexHash)
	if err != nil {
		return nil, common.Wrap("turn to valid hash", err)
	}

	off, err := d.index.get(h)
	if err != nil {
		return nil, common.Wrap("get offset by hash", err)
	}

	payload, err := d.readPayload(off)
	if err != nil {
		return nil, common.Wrap("read payload from data file", err)
	}
	return payload, nil
}

func (d *Database) readPayload(off offset.Offset) ([]byte, error) {
	var header [lengthSize]byte
	if _, err := d.dataFile.ReadAt(header[:], int64(off)); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint64(header[:])
	payload := make([]byte, length)
	if _, err := d.dataFile.ReadAt(payload, int64(off)+lengthSize); err != nil {
		return nil, err
	}
	return payload, nil
}

// List returns every hash currently stored, as 64-character hex
// strings, via an in-order leaf scan of the index.
func (d *Database) List() ([]string, error) {
	hashes, err := d.index.list()
	if err != nil {
		return nil, common.Wrap("list hashes", err)
	}
	out := make([]string, len(hashes))
	for i, h := range hashes {
		out[i] = h.String()
	}
	return out, nil
}

// Close closes the underlying data and index files.
func (d *Database) Close() error {
	if err := d.index.close(); err != nil {
		return err
	}
	return common.Wrap("close data file", d.dataFile.Close())
}

// Drop closes the database and removes its entire directory tree.
func (d *Database) Drop() error {
	if err := d.Close(); err != nil {
		return err
	}
	return common.Wrap("remove database directory", os.RemoveAll(d.path))
}
