package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dexcore/internal/model"
)

// JsonlReceipts appends operation receipts to a JSONL file.
type JsonlReceipts struct {
	path string
	mu   sync.Mutex
}

func NewJsonlReceipts(path string) *JsonlReceipts {
	return &JsonlReceipts{path: path}
}

// PutReceiptBatch appends a batch of receipts as JSON lines.
func (s *JsonlReceipts) PutReceiptBatch(receipts []model.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]interface{}, len(receipts))
	for i, r := range receipts {
		items[i] = r
	}
	return appendLines(s.path, items)
}

// JsonlPoolStates overwrites a JSONL file with the latest pool snapshots.
type JsonlPoolStates struct {
	path string
	mu   sync.Mutex
}

func NewJsonlPoolStates(path string) *JsonlPoolStates {
	return &JsonlPoolStates{path: path}
}

// PutPoolStates replaces the file contents with one line per pool.
func (s *JsonlPoolStates) PutPoolStates(states []model.PoolState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]interface{}, len(states))
	for i, st := range states {
		items[i] = st
	}
	return writeLines(s.path, items, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// ReadPoolStates loads pool snapshots back from a JSONL file.
func ReadPoolStates(path string) ([]model.PoolState, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshots: %w", err)
	}
	defer file.Close()

	var states []model.PoolState
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var state model.PoolState
		if err := json.Unmarshal(line, &state); err != nil {
			return nil, fmt.Errorf("parse snapshot line: %w", err)
		}
		states = append(states, state)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	return states, nil
}

func appendLines(path string, items []interface{}) error {
	return writeLines(path, items, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

func writeLines(path string, items []interface{}, flags int) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, item := range items {
		line, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
