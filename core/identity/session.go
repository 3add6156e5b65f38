// Package identity assigns stable surrogate ids to framework objects for the
// length of an inspection session.
//
// A Session replaces process-wide identity maps: callers own it, pass it to
// every serialize call and Reset it before a full tree rebuild so ids from a
// structurally different tree are never reused.
package identity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/runtime"
)

var ErrUnknownInjector = errors.New("unknown injector id")

type KeyKind int

const (
	// KeyElement keys an element injector by its DOM position.
	KeyElement KeyKind = iota
	// KeyInjector keys an environment injector by its own identity.
	KeyInjector
	// KeyModule keys a module type, used for import paths.
	KeyModule
)

type Key struct {
	Kind  KeyKind
	Value string
}

func ElementKey(id runtime.NodeID) Key { return Key{Kind: KeyElement, Value: string(id)} }
func InjectorKey(id runtime.InjectorID) Key { return Key{Kind: KeyInjector, Value: string(id)} }
func ModuleKey(id runtime.ModuleID) Key { return Key{Kind: KeyModule, Value: string(id)} }

func (k Key) String() string {
	switch k.Kind {
	case KeyElement:
		return "element/" + k.Value
	case KeyInjector:
		return "injector/" + k.Value
	default:
		return "module/" + k.Value
	}
}

// IDGenerator is called once per key, on first sighting.
type IDGenerator func(key Key) string

// UUIDGenerator hands out random ids.
func UUIDGenerator() IDGenerator {
	return func(Key) string { return uuid.NewString() }
}

// StableGenerator derives a name-based UUID from the key, so the same snapshot
// yields the same ids in every process.
func StableGenerator() IDGenerator {
	return func(key Key) string {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key.String())).String()
	}
}

// SequentialGenerator yields prefix-1, prefix-2, ... in order of first sighting.
func SequentialGenerator(prefix string) IDGenerator {
	var mu sync.Mutex
	next := 0
	return func(Key) string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

type Metrics struct {
	Lookups   int64   `json:"lookups" yaml:"lookups"`
	Hits      int64   `json:"hits" yaml:"hits"`
	Misses    int64   `json:"misses" yaml:"misses"`
	Entries   int     `json:"entries" yaml:"entries"`
	Injectors int     `json:"injectors" yaml:"injectors"`
	HitRate   float64 `json:"hit_rate" yaml:"hit_rate"`
}

func (m *Metrics) CalculateHitRate() {
	if m.Lookups > 0 {
		m.HitRate = float64(m.Hits) / float64(m.Lookups) * 100
	} else {
		m.HitRate = 0
	}
}

type Session struct {
	mu        sync.RWMutex
	generate  IDGenerator
	ids       map[Key]string
	injectors map[string]runtime.EnvironmentInjector
	metrics   Metrics
}

func NewSession(generate IDGenerator) *Session {
	if generate == nil {
		generate = UUIDGenerator()
	}
	return &Session{
		generate:  generate,
		ids:       make(map[Key]string),
		injectors: make(map[string]runtime.EnvironmentInjector),
	}
}

// ID returns the id assigned to key, generating one on first sighting.
func (s *Session) ID(key Key) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Lookups++
	if id, ok := s.ids[key]; ok {
		s.metrics.Hits++
		return id
	}
	s.metrics.Misses++
	id := s.generate(key)
	s.ids[key] = id
	return id
}

// RegisterInjector records the live injector behind id so later queries can
// recover it from the id alone.
func (s *Session) RegisterInjector(id string, inj runtime.EnvironmentInjector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injectors[id] = inj
}

func (s *Session) Injector(id string) (runtime.EnvironmentInjector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inj, ok := s.injectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInjector, id)
	}
	return inj, nil
}

// Reset drops every id and side-table entry. The generator keeps its state so
// sequential ids are never handed out twice within a process.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[Key]string)
	s.injectors = make(map[string]runtime.EnvironmentInjector)
	s.metrics = Metrics{}
	logger.Debug("Identity session reset")
}

func (s *Session) Stats() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.metrics
	m.Entries = len(s.ids)
	m.Injectors = len(s.injectors)
	m.CalculateHitRate()
	return m
}
