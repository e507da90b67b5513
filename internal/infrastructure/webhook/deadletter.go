package webhook

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/events"
)

// DeadLetterStore keeps board notifications that could not be delivered,
// one JSON object per line, so they can be inspected with `roadmapper notifications`.
type DeadLetterStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewDeadLetterStore(path string) *DeadLetterStore {
	return &DeadLetterStore{path: path, now: time.Now}
}

// Append records a failed delivery. The parent directory is created on demand.
func (s *DeadLetterStore) Append(dl events.DeadLetter) error {
	if dl.Timestamp.IsZero() {
		dl.Timestamp = s.now().UTC()
	}
	line, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("encode dead letter for %s: %w", dl.WebhookName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dead letter dir: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open dead letters: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write dead letter: %w", err)
	}
	return f.Close()
}

// ReadAll returns every recorded failure, oldest first. A missing file yields
// none. On a malformed line the entries before it are returned with the error.
func (s *DeadLetterStore) ReadAll() ([]events.DeadLetter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dead letters: %w", err)
	}
	defer f.Close()

	var out []events.DeadLetter
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for n := 1; sc.Scan(); n++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var dl events.DeadLetter
		if err := json.Unmarshal(sc.Bytes(), &dl); err != nil {
			return out, fmt.Errorf("dead letter line %d: %w", n, err)
		}
		out = append(out, dl)
	}
	return out, sc.Err()
}
