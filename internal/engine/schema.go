package engine

// FeatureSchema is the ordered column list a trained classifier expects.
// The name index is built once; the schema is never mutated afterwards.
type FeatureSchema struct {
	names []string
	index map[string]int
}

// NewFeatureSchema copies names. Duplicate names keep their first position.
func NewFeatureSchema(names []string) *FeatureSchema {
	s := &FeatureSchema{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	copy(s.names, names)
	for i, n := range s.names {
		if _, dup := s.index[n]; !dup {
			s.index[n] = i
		}
	}
	return s
}

// Len is the vector length the schema produces. A nil schema has length 0.
func (s *FeatureSchema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Index returns the column position of name.
func (s *FeatureSchema) Index(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.index[name]
	return i, ok
}
