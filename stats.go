package mdomml

// Stats counts the formulas converted during one document conversion.
// The caller owns it and passes it by pointer; counters only grow.
type Stats struct {
	Block  int
	Inline int
}

// AddBlock records one display formula.
func (s *Stats) AddBlock() {
	if s != nil {
		s.Block++
	}
}

// AddInline records one inline formula, explicit or detected.
func (s *Stats) AddInline() {
	if s != nil {
		s.Inline++
	}
}

// Total returns the number of formulas of both kinds.
func (s Stats) Total() int {
	return s.Block + s.Inline
}

// Merge adds the counters of other into s.
func (s *Stats) Merge(other Stats) {
	s.Block += other.Block
	s.Inline += other.Inline
}
