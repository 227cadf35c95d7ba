package tokenstore

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/topcv/jobboard/pkg/file"
)

type fileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend returns a Backend that keeps all entries in a single JSON
// document at the specified path. The document is readable only by its owner
// and its directory is created on first write.
func NewFileBackend(path string) Backend {
	return &fileBackend{
		path: path,
	}
}

func (f *fileBackend) Get(
	_ context.Context,
	keys ...string,
) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	for _, key := range keys {
		if value, ok := entries[key]; ok {
			values[key] = value
		}
	}
	return values, nil
}

func (f *fileBackend) Set(
	_ context.Context,
	newEntries map[string]string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		// A damaged document is replaced rather than blocking every write.
		entries = map[string]string{}
	}
	for key, value := range newEntries {
		entries[key] = value
	}
	return f.save(entries)
}

func (f *fileBackend) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		entries = map[string]string{}
	}
	for _, key := range keys {
		delete(entries, key)
	}
	if len(entries) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "error deleting %s", f.path)
		}
		return nil
	}
	return f.save(entries)
}

func (f *fileBackend) load() (map[string]string, error) {
	entries := map[string]string{}
	if !file.Exists(f.path) {
		return entries, nil
	}
	entriesBytes, err := ioutil.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", f.path)
	}
	if err := json.Unmarshal(entriesBytes, &entries); err != nil {
		return nil, errors.Wrapf(err, "error parsing %s", f.path)
	}
	return entries, nil
}

func (f *fileBackend) save(entries map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "error creating %s", dir)
	}
	entriesBytes, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "error marshaling entries")
	}
	// Write then rename so a reader never observes a half-written document.
	tmp, err := ioutil.TempFile(dir, ".session-")
	if err != nil {
		return errors.Wrapf(err, "error creating temporary file in %s", dir)
	}
	defer os.Remove(tmp.Name()) // nolint: errcheck
	if _, err := tmp.Write(entriesBytes); err != nil {
		tmp.Close() // nolint: errcheck
		return errors.Wrapf(err, "error writing to %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "error closing %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return errors.Wrapf(err, "error setting permissions on %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrapf(err, "error writing to %s", f.path)
	}
	return nil
}
