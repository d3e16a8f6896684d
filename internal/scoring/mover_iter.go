package scoring

import "github.com/galagoread/galagoread/internal/docid"

// CurrentDocument reports the mover's current candidate document: for a
// RealMover this delegates to its node, for AndMover the largest of its
// children's candidates (all must independently reach it), for OrMover the
// smallest (any child reaching it is enough), and the obvious constants for
// All/Empty.
func (m Mover) CurrentDocument() docid.DocID {
	switch m.Kind {
	case AllMover:
		return 0
	case EmptyMover:
		return docid.NoMore
	case RealMover:
		return m.Node.CurrentDocument()
	case AndMover:
		max := docid.DocID(0)
		for _, c := range m.Children {
			max = docid.Max(max, c.CurrentDocument())
		}
		return max
	case OrMover:
		min := docid.NoMore
		for _, c := range m.Children {
			min = docid.Min(min, c.CurrentDocument())
		}
		return min
	default:
		return docid.NoMore
	}
}

// SyncTo advances the mover to candidate document >= target, driving every
// child that needs it. For AndMover, children are repeatedly advanced to
// each other's frontier until they all agree on a single candidate (or one
// of them is exhausted).
func (m Mover) SyncTo(target docid.DocID) (docid.DocID, error) {
	switch m.Kind {
	case AllMover:
		return target, nil
	case EmptyMover:
		return docid.NoMore, nil
	case RealMover:
		return m.Node.SyncTo(target)
	case OrMover:
		min := docid.NoMore
		for _, c := range m.Children {
			d, err := c.SyncTo(target)
			if err != nil {
				return 0, err
			}
			min = docid.Min(min, d)
		}
		return min, nil
	case AndMover:
		candidate := target
		for {
			agreed := true
			next := candidate
			for _, c := range m.Children {
				d, err := c.SyncTo(candidate)
				if err != nil {
					return 0, err
				}
				if d.IsDone() {
					return docid.NoMore, nil
				}
				if d != candidate {
					agreed = false
				}
				next = docid.Max(next, d)
			}
			if agreed {
				return candidate, nil
			}
			candidate = next
		}
	default:
		return docid.NoMore, nil
	}
}

// IsDone reports whether the mover has no more candidates at or after its
// current position.
func (m Mover) IsDone() bool {
	return m.CurrentDocument().IsDone()
}

// MovePast advances to the first candidate strictly after the current one.
func (m Mover) MovePast() (docid.DocID, error) {
	if m.IsDone() {
		return docid.NoMore, nil
	}
	return m.SyncTo(m.CurrentDocument() + 1)
}
