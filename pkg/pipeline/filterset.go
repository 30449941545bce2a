package pipeline

// filterSet is an insertion-ordered name -> Filter mapping. Putting an
// existing name replaces the filter in its original position.
type filterSet struct {
	order  []string
	byName map[string]*Filter
}

func (s *filterSet) put(f *Filter) {
	if s.byName == nil {
		s.byName = make(map[string]*Filter)
	}
	if _, exists := s.byName[f.name]; !exists {
		s.order = append(s.order, f.name)
	}
	s.byName[f.name] = f
}

func (s *filterSet) get(name string) (*Filter, bool) {
	f, ok := s.byName[name]
	return f, ok
}

func (s *filterSet) remove(name string) {
	if _, ok := s.byName[name]; !ok {
		return
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *filterSet) list() []*Filter {
	out := make([]*Filter, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.byName[n])
	}
	return out
}

func (s *filterSet) len() int {
	return len(s.order)
}

func (s *filterSet) reset() {
	s.order = nil
	s.byName = nil
}
