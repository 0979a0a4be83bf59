package repository

// Sequence mints monotonically increasing int64 IDs. The starting value is
// recovered from persisted data once, when the owning store is constructed;
// it is never reset while the process lives. Callers serialize access through
// the store mutex.
type Sequence struct {
	next int64
}

func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

func (s *Sequence) Next() int64 {
	id := s.next
	s.next++
	return id
}
