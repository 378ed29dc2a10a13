// Package audit appends hash-chained records of security relevant actions
// to a local file. Every line embeds the hash of the previous line, so a
// removed or edited record breaks the chain on verification.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Trail struct {
	mu   sync.Mutex
	f    *os.File
	prev []byte
}

// Open appends to the trail at path, creating parent directories as needed.
// A freshly opened trail continues an existing file by replaying its last
// hash so the chain stays unbroken across restarts.
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	prev, err := lastHash(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Trail{f: f, prev: prev}, nil
}

func (t *Trail) Close() error {
	if t == nil {
		return nil
	}
	return t.f.Close()
}

type Record struct {
	Time   time.Time         `json:"time"`
	Kind   string            `json:"kind"`
	Tenant string            `json:"tenant"`
	Target string            `json:"target"`
	Meta   map[string]string `json:"meta,omitempty"`
	Prev   string            `json:"prev"`
	Hash   string            `json:"hash"`
}

// Log writes one record. A nil Trail drops the record, letting callers
// skip the enabled check.
func (t *Trail) Log(kind, tenant, target string, meta map[string]string) error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := Record{
		Time:   time.Now().UTC(),
		Kind:   kind,
		Tenant: tenant,
		Target: target,
		Meta:   meta,
		Prev:   hex.EncodeToString(t.prev),
	}
	body, _ := json.Marshal(rec)
	sum := sha256.Sum256(append(t.prev, body...))
	rec.Hash = hex.EncodeToString(sum[:])
	line, _ := json.Marshal(rec)
	if _, err := t.f.Write(append(line, '\n')); err != nil {
		return err
	}
	copy(t.prev, sum[:])
	return nil
}

// Verify replays the file and checks every link. It returns the number of
// valid records and fails on the first broken one.
func Verify(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	prev := make([]byte, sha256.Size)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return n, fmt.Errorf("record %d: %w", n+1, err)
		}
		if rec.Prev != hex.EncodeToString(prev) {
			return n, fmt.Errorf("record %d: chain broken", n+1)
		}
		want := rec.Hash
		rec.Hash = ""
		body, _ := json.Marshal(rec)
		sum := sha256.Sum256(append(prev, body...))
		if hex.EncodeToString(sum[:]) != want {
			return n, fmt.Errorf("record %d: hash mismatch", n+1)
		}
		copy(prev, sum[:])
		n++
	}
	if err := sc.Err(); err != nil {
		return n, err
	}
	return n, nil
}

func lastHash(path string) ([]byte, error) {
	prev := make([]byte, sha256.Size)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prev, nil
		}
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var last string
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err == nil && rec.Hash != "" {
			last = rec.Hash
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if last != "" {
		if b, err := hex.DecodeString(last); err == nil && len(b) == sha256.Size {
			return b, nil
		}
	}
	return prev, nil
}
