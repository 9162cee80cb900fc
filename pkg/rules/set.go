package rules

import "sync"

// Set guarda o Validator em uso e permite trocá-lo com o serviço no ar.
// Sem validator, todo item passa.
type Set struct {
	mu sync.RWMutex
	v  *Validator
}

func NewSet(v *Validator) *Set {
	return &Set{v: v}
}

// Swap instala v e devolve o anterior.
func (s *Set) Swap(v *Validator) *Validator {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.v
	s.v = v
	return old
}

// Len devolve quantas regras estão ativas.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.v == nil {
		return 0
	}
	return s.v.Len()
}

func (s *Set) Validate(item map[string]any) error {
	s.mu.RLock()
	v := s.v
	s.mu.RUnlock()
	if v == nil {
		return nil
	}
	return v.Validate(item)
}
