package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"dexcore/internal/model"
)

// ReadOperations loads an operation journal: one JSON operation per line,
// empty lines skipped. Line order is the deterministic application order.
func ReadOperations(path string) ([]model.Operation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var ops []model.Operation
	line := 0
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		line++
		if len(raw) == 0 {
			continue
		}

		var op model.Operation
		if err := json.Unmarshal(raw, &op); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", line, err)
		}
		ops = append(ops, op)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}

	return ops, nil
}
