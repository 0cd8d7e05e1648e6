package loader

import (
	"sync"

	"github.com/Ninjabillcos/pathways"
)

// InMemoryPathwayService holds loaded pathway definitions indexed by name.
// Definitions are read-only once added; the service itself is safe for
// concurrent use.
type InMemoryPathwayService struct {
	mu     sync.RWMutex
	byName map[string]*pathways.Pathway
	order  []string
}

// NewInMemoryPathwayService creates an empty pathway service.
func NewInMemoryPathwayService() *InMemoryPathwayService {
	return &InMemoryPathwayService{
		byName: make(map[string]*pathways.Pathway),
	}
}

// Add validates and stores a pathway. Adding a pathway with an existing
// name replaces the previous definition but keeps its position.
func (s *InMemoryPathwayService) Add(p *pathways.Pathway) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[p.Name]; !exists {
		s.order = append(s.order, p.Name)
	}
	s.byName[p.Name] = p
	return nil
}

// AddAll validates and stores multiple pathways, stopping at the first
// failure.
func (s *InMemoryPathwayService) AddAll(pws []*pathways.Pathway) error {
	for _, p := range pws {
		if err := s.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the named pathway, or nil and false when absent.
func (s *InMemoryPathwayService) Get(name string) (*pathways.Pathway, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byName[name]
	return p, ok
}

// All returns every stored pathway in insertion order.
func (s *InMemoryPathwayService) All() []*pathways.Pathway {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*pathways.Pathway, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Names returns the stored pathway names in insertion order.
func (s *InMemoryPathwayService) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of stored pathways.
func (s *InMemoryPathwayService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
