package anki

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/zefanja/podcast2Anki/internal/llm"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

// pointMarker matches a numbered summary line, e.g. "3. Some key point"
var pointMarker = regexp.MustCompile(`^\d+\.\s+(.*)`)

// ParseOutputFile reads a batch output artifact (one JSON record per line)
// and parses each successful record's content into flashcard points keyed
// by episode ID. Malformed lines are logged and skipped, records without a
// 200 status are dropped.
func ParseOutputFile(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch output %s: %w", path, err)
	}
	defer f.Close()

	results := map[string][]string{}

	scanner := bufio.NewScanner(f)
	// Summaries of long transcripts produce long lines
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record llm.OutputRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			log.Warn("Skipping invalid JSON line: %.80s... error: %v", line, err)
			continue
		}

		if record.Response.StatusCode != 200 {
			continue
		}

		results[record.CustomID] = ParsePoints(record.Content())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch output %s: %w", path, err)
	}

	return results, nil
}

// ParsePoints re-segments free-form numbered-list text into discrete
// points. Each point starts at a "N. text" marker and accumulates until
// the next marker or the end of the text:
//   - the marker line contributes its text with the number stripped
//   - "-" lines are sub-items; the first one of a point is preceded by a
//     synthetic blank line
//   - other non-blank lines are continuations, appended verbatim
//   - blank lines are skipped
//
// Text before the first marker has no open point and is discarded.
func ParsePoints(content string) []string {
	// Never nil: an episode with zero points still serializes as an
	// empty list in the results file.
	points := []string{}
	var current []string
	open := false
	firstSubItem := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if match := pointMarker.FindStringSubmatch(line); match != nil {
			if open {
				points = append(points, strings.Join(current, "\n"))
			}
			current = []string{strings.TrimSpace(match[1])}
			open = true
			firstSubItem = true
			continue
		}

		if !open {
			continue
		}

		if strings.HasPrefix(line, "-") {
			if firstSubItem {
				current = append(current, "")
				firstSubItem = false
			}
			current = append(current, line)
			continue
		}

		current = append(current, line)
	}

	if open {
		points = append(points, strings.Join(current, "\n"))
	}

	return points
}
