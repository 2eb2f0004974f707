// Package dataset loads evaluation datasets from JSONL files, one example
// per line. Loading is strict: a malformed line or a missing required field
// fails the whole load with its line number, before any generation call is
// made — a doomed run must not waste expensive model calls.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ahrav/go-abeval/internal/domain"
)

// ErrMalformedRecord indicates a dataset line that is not a valid example.
var ErrMalformedRecord = errors.New("malformed dataset record")

// maxLineBytes bounds a single dataset line. Inputs are article-sized text,
// not documents; 4 MiB leaves generous headroom.
const maxLineBytes = 4 << 20

// Load reads all examples from the JSONL file at path, preserving file
// order. Blank lines are skipped. Any parse or validation failure aborts
// the load with the offending 1-based line number.
func Load(path string) ([]domain.Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	examples, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return examples, nil
}

// Read decodes examples from JSONL content, preserving input order.
func Read(r io.Reader) ([]domain.Example, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var examples []domain.Example
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var example domain.Example
		if err := json.Unmarshal([]byte(line), &example); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, lineNo, err)
		}
		if err := example.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, lineNo, err)
		}

		examples = append(examples, example)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return examples, nil
}
