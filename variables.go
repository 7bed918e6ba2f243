package appstate

// variableStore is the open-ended half of the container: an insertion-ordered
// map from normalized name to Value. Entries never hold the zero Value; a
// delete removes the entry outright.
type variableStore struct {
	order  []string
	values map[string]Value
}

func newVariableStore() *variableStore {
	return &variableStore{values: make(map[string]Value)}
}

func (s *variableStore) get(name string) (Value, bool) {
	value, ok := s.values[name]
	return value, ok
}

// set stores value under name and reports the replaced value, if any.
func (s *variableStore) set(name string, value Value) (Value, bool) {
	previous, existed := s.values[name]
	if !existed {
		s.order = append(s.order, name)
	}
	s.values[name] = value
	return previous, existed
}

// delete removes name and reports the removed value, if any.
func (s *variableStore) delete(name string) (Value, bool) {
	previous, existed := s.values[name]
	if !existed {
		return Value{}, false
	}
	delete(s.values, name)
	for i, candidate := range s.order {
		if candidate == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return previous, true
}

// names returns a defensive copy of the insertion order.
func (s *variableStore) names() []string {
	if len(s.order) == 0 {
		return nil
	}
	return append([]string(nil), s.order...)
}
