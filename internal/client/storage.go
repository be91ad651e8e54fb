package client

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Fixed storage keys for the cached session, mirroring the browser client.
const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
)

// Store is persistent local storage for session state.
type Store interface {
	Get(key string, value interface{}) (bool, error)
	Set(key string, value interface{}) error
	Delete(key string) error
}

// FileStore keeps key/value pairs in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get unmarshals the stored value for key into value. The second return is
// false when the key is absent.
func (s *FileStore) Get(key string, value interface{}) (bool, error) {
	data, err := s.read()
	if err != nil {
		return false, err
	}
	raw, ok := data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, value)
}

// Set stores value under key.
func (s *FileStore) Set(key string, value interface{}) error {
	data, err := s.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data[key] = raw
	return s.write(data)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileStore) Delete(key string) error {
	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.write(data)
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt session file is treated as empty rather than fatal.
		return map[string]json.RawMessage{}, nil
	}
	return data, nil
}

func (s *FileStore) write(data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}
