package scoring

// MoverKind tags which shape of candidate-document movement a Mover
// represents, grounded on original_source/src/movement.rs.
type MoverKind int

const (
	// AllMover matches every document (the absorbing element of Or).
	AllMover MoverKind = iota
	// EmptyMover matches no document (the absorbing element of And).
	EmptyMover
	// RealMover wraps a concrete EvalNode driving real movement.
	RealMover
	// AndMover requires every child to match.
	AndMover
	// OrMover requires any child to match.
	OrMover
)

// Mover is a simplified tree describing how candidate documents are
// enumerated for a query, independent of how they are scored. Building it
// via CreateAnd/CreateOr applies the absorption rules that collapse
// All/Empty movers out of the tree before evaluation ever begins.
type Mover struct {
	Kind     MoverKind
	Node     EvalNode
	Children []Mover
}

// CreateOr builds the Or-combination of movers, dropping EmptyMover
// children and absorbing into AllMover if any child is AllMover.
func CreateOr(input []Mover) Mover {
	var flattened []Mover
	for _, it := range input {
		switch it.Kind {
		case AllMover:
			return Mover{Kind: AllMover}
		case EmptyMover:
			continue
		case OrMover:
			flattened = append(flattened, it.Children...)
		default:
			flattened = append(flattened, it)
		}
	}

	switch len(flattened) {
	case 0:
		return Mover{Kind: EmptyMover}
	case 1:
		return flattened[0]
	default:
		return Mover{Kind: OrMover, Children: flattened}
	}
}

// CreateAnd builds the And-combination of movers, dropping AllMover
// children and absorbing into EmptyMover if any child is EmptyMover.
func CreateAnd(input []Mover) Mover {
	var flattened []Mover
	for _, it := range input {
		switch it.Kind {
		case EmptyMover:
			return Mover{Kind: EmptyMover}
		case AllMover:
			continue
		case AndMover:
			flattened = append(flattened, it.Children...)
		default:
			flattened = append(flattened, it)
		}
	}

	switch len(flattened) {
	case 0:
		return Mover{Kind: EmptyMover}
	case 1:
		return flattened[0]
	default:
		return Mover{Kind: AndMover, Children: flattened}
	}
}

// NewRealMover wraps a concrete EvalNode as a RealMover leaf.
func NewRealMover(node EvalNode) Mover {
	return Mover{Kind: RealMover, Node: node}
}
