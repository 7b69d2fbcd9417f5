package paypal

// fieldSet is an insertion-ordered name/value map.
// Overwriting a key keeps its original position.
type fieldSet struct {
	keys   []string
	values map[string]string
}

func newFieldSet() *fieldSet {
	return &fieldSet{values: make(map[string]string)}
}

func (s *fieldSet) set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *fieldSet) get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *fieldSet) unset(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

func (s *fieldSet) len() int {
	return len(s.keys)
}

func (s *fieldSet) each(fn func(key, value string)) {
	for _, k := range s.keys {
		fn(k, s.values[k])
	}
}
