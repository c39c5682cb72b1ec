// Package agenttest provides in-memory fakes for the agent's collaborators.
package agenttest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
)

// EmployeeStore is an in-memory record store. Similarity is the dot product of
// the query and record vectors; ties keep insertion order.
type EmployeeStore struct {
	mu      sync.Mutex
	records map[string]*model.Employee
	order   []string

	// Err, when set, is returned by every call.
	Err error
	// Updates records each UpdateFields call.
	Updates []map[string]any
	Inserts int
}

func NewEmployeeStore(seed ...*model.Employee) *EmployeeStore {
	s := &EmployeeStore{records: map[string]*model.Employee{}}
	for _, e := range seed {
		s.put(e)
	}
	return s
}

func (s *EmployeeStore) put(e *model.Employee) {
	if _, ok := s.records[e.EmployeeID]; !ok {
		s.order = append(s.order, e.EmployeeID)
	}
	s.records[e.EmployeeID] = clone(e)
}

func (s *EmployeeStore) FindByID(_ context.Context, id string) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.records[id]
	if !ok {
		return nil, errx.ErrNotFound
	}
	return clone(e), nil
}

func (s *EmployeeStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.records[id]
	return ok, nil
}

// Insert rejects a taken id with errx.ErrConflict, like the unique index of
// the Mongo store.
func (s *EmployeeStore) Insert(_ context.Context, e *model.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Inserts++
	if _, ok := s.records[e.EmployeeID]; ok {
		return errx.Conflict(errors.New("duplicate key"), fmt.Sprintf("employee %s already exists", e.EmployeeID))
	}
	s.put(e)
	return nil
}

// UpdateFields applies fields through a JSON round trip, mirroring a $set.
func (s *EmployeeStore) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	e, ok := s.records[id]
	if !ok {
		return errx.ErrNotFound
	}
	s.Updates = append(s.Updates, fields)

	doc := map[string]any{}
	b, _ := json.Marshal(e)
	_ = json.Unmarshal(b, &doc)
	for k, v := range fields {
		doc[k] = v
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var updated model.Employee
	if err := json.Unmarshal(b, &updated); err != nil {
		return err
	}
	s.records[id] = &updated
	return nil
}

func (s *EmployeeStore) SimilaritySearch(_ context.Context, vector []float32, n int) ([]model.ScoredEmployee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	hits := make([]model.ScoredEmployee, 0, len(s.order))
	for _, id := range s.order {
		e := s.records[id]
		hits = append(hits, model.ScoredEmployee{Employee: *clone(e), Score: dot(vector, e.Embedding)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

func (s *EmployeeStore) List(_ context.Context) ([]model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Employee, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *clone(s.records[id]))
	}
	return out, nil
}

// Get returns the stored record or nil.
func (s *EmployeeStore) Get(id string) *model.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.records[id]; ok {
		return clone(e)
	}
	return nil
}

func (s *EmployeeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func dot(a, b []float32) float64 {
	var score float64
	for i := 0; i < len(a) && i < len(b); i++ {
		score += float64(a[i] * b[i])
	}
	return score
}

func clone(e *model.Employee) *model.Employee {
	b, _ := json.Marshal(e)
	var out model.Employee
	_ = json.Unmarshal(b, &out)
	return &out
}

// Embedder returns a small vector derived from the text and records calls.
type Embedder struct {
	mu    sync.Mutex
	Err   error
	Texts []string
}

func (f *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Texts = append(f.Texts, text)
	if f.Err != nil {
		return nil, f.Err
	}
	return Vector(text), nil
}

// Calls returns the number of Embed calls.
func (f *Embedder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Texts)
}

// Vector is the deterministic embedding used by Embedder: one component per
// lowercased word, folded into eight buckets.
func Vector(text string) []float32 {
	v := make([]float32, 8)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		var h uint32
		for _, r := range w {
			h = h*31 + uint32(r)
		}
		v[h%8]++
	}
	return v
}
