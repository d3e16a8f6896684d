package btree

import "github.com/galagoread/galagoread/internal/errs"

// PartKind classifies a tree by what its values mean, derived from the
// manifest's readerClass string. Grounded on galago/postings.rs's
// IndexPartType, supplemented here because the distilled spec only
// describes the reader mechanics, not the part taxonomy built on top of it.
type PartKind int

const (
	PartUnknown PartKind = iota
	PartNames
	PartNamesReverse
	PartCorpus
	PartPositions
	PartLengths
)

var readerClassToPartKind = map[string]PartKind{
	"org.lemurproject.galago.core.index.disk.DiskNameReader":        PartNames,
	"org.lemurproject.galago.core.index.disk.DiskNameReverseReader": PartNamesReverse,
	"org.lemurproject.galago.core.index.corpus.CorpusReader":        PartCorpus,
	"org.lemurproject.galago.core.index.disk.DiskLengthsReader":     PartLengths,
	"org.lemurproject.galago.core.index.disk.PositionIndexReader":   PartPositions,
}

// ClassifyReaderClass maps a manifest's readerClass string to a PartKind.
func ClassifyReaderClass(className string) (PartKind, error) {
	kind, ok := readerClassToPartKind[className]
	if !ok {
		return PartUnknown, errs.NewMissingFieldError("readerClass:" + className)
	}
	return kind, nil
}

func (k PartKind) String() string {
	switch k {
	case PartNames:
		return "names"
	case PartNamesReverse:
		return "namesReverse"
	case PartCorpus:
		return "corpus"
	case PartPositions:
		return "positions"
	case PartLengths:
		return "lengths"
	default:
		return "unknown"
	}
}
