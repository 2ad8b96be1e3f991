package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cognicore/chainer/pkg/chainer/store"
)

// Entry is the JSONL form of one journal assertion
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadFromJSONL loads entries from a JSONL file, skipping malformed lines
func LoadFromJSONL(path string) ([]store.Assertion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var out []store.Assertion
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		if e.Text == "" {
			log.Printf("Warning: skipping entry without text at line %d in %s", i+1, path)
			continue
		}
		out = append(out, store.Assertion{
			ID:        e.ID,
			Kind:      e.Kind,
			Text:      e.Text,
			CreatedAt: e.CreatedAt,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no valid entries found in %s", path)
	}

	return out, nil
}

// WriteJSONL writes one JSON object per entry
func WriteJSONL(w io.Writer, entries []store.Assertion) error {
	enc := json.NewEncoder(w)
	for _, a := range entries {
		e := Entry{ID: a.ID, Kind: a.Kind, Text: a.Text, CreatedAt: a.CreatedAt.UTC()}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode %s: %w", a.ID, err)
		}
	}
	return nil
}
