package memory

import (
	"encoding/json"
	"os"
	"sync"
)

// BackgroundStore keeps the shared background reference URL in memory and
// mirrors it to a small JSON file so an upload survives restarts.
type BackgroundStore struct {
	mu       sync.RWMutex
	url      string
	filePath string
}

type backgroundFile struct {
	URL string `json:"url"`
}

func NewBackgroundStore(filePath string) *BackgroundStore {
	return &BackgroundStore{filePath: filePath}
}

func (s *BackgroundStore) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

func (s *BackgroundStore) Set(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
	if s.filePath == "" {
		return nil
	}
	data, err := json.Marshal(backgroundFile{URL: url})
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0o644)
}

// Load reads the persisted URL. A missing file is not an error: the store
// just starts empty.
func (s *BackgroundStore) Load() error {
	if s.filePath == "" {
		return nil
	}
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var parsed backgroundFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	s.mu.Lock()
	s.url = parsed.URL
	s.mu.Unlock()
	return nil
}
