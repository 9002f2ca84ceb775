// Package sprint reads story entries out of a sprint status document.
//
// A story entry is any mapping carrying scalar "path" and "status" keys:
//
//	development_status:
//	  story-1-2-login:
//	    path: docs/sprint/sprint-artifacts/story-1-2-login.md
//	    status: done
//
// Entries may sit at any depth. Records are keyed by the base name of path.
package sprint

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// StoryRecord pairs an artifact file with its workflow status.
type StoryRecord struct {
	Key      string
	Filename string
	Status   string
}

// ReadStatusFile parses the status document at filePath.
func ReadStatusFile(filePath string) ([]StoryRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}
	records, err := ParseStatus(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	slog.Debug("Parsed status file", "path", filePath, "stories", len(records))
	return records, nil
}

// ParseStatus extracts story records in document order. When two entries
// point at the same file the later status wins but the first position is kept.
func ParseStatus(data []byte) ([]StoryRecord, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse status YAML: %w", err)
	}

	var records []StoryRecord
	index := make(map[string]int)
	collect(&doc, func(r StoryRecord) {
		if i, ok := index[r.Filename]; ok {
			records[i] = r
			return
		}
		index[r.Filename] = len(records)
		records = append(records, r)
	})
	return records, nil
}

func collect(node *yaml.Node, emit func(StoryRecord)) {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			collect(child, emit)
		}
	case yaml.AliasNode:
		// aliases repeat an anchored entry; the anchor itself is already visited
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind == yaml.MappingNode {
				r, err := storyFrom(key.Value, value)
				switch {
				case err == nil:
					emit(r)
					continue
				case !errors.Is(err, errNotStory):
					slog.Warn("Skipping story entry", "key", key.Value, "error", err)
					continue
				}
			}
			collect(value, emit)
		}
	}
}

var errNotStory = errors.New("not a story entry")

func storyFrom(key string, m *yaml.Node) (StoryRecord, error) {
	var p, status *yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		switch m.Content[i].Value {
		case "path":
			p = m.Content[i+1]
		case "status":
			status = m.Content[i+1]
		}
	}
	if p == nil || status == nil {
		return StoryRecord{}, errNotStory
	}
	if p.Kind != yaml.ScalarNode || status.Kind != yaml.ScalarNode {
		return StoryRecord{}, fmt.Errorf("path and status must be scalars")
	}

	filename := baseName(p.Value)
	if filename == "" {
		return StoryRecord{}, fmt.Errorf("empty path")
	}
	return StoryRecord{
		Key:      key,
		Filename: filename,
		Status:   strings.TrimSpace(status.Value),
	}, nil
}

// baseName handles both separators since status files are shared across platforms.
func baseName(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if p == "" {
		return ""
	}
	b := path.Base(p)
	if b == "." || b == ".." || b == "/" {
		return ""
	}
	return b
}
