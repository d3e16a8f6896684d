package indexer

// TermID identifies a token within one field's vocabulary.
type TermID uint32

// FieldID identifies a declared field, e.g. <body>, <title>.
type FieldID uint16

// TextOptions controls how much a textual field records per occurrence.
type TextOptions int

const (
	// TextOptionsDocs records presence only: one entry per document.
	TextOptionsDocs TextOptions = iota
	// TextOptionsCounts records a per-document term count and a length entry.
	TextOptionsCounts
	// TextOptionsPositions records delta-gapped occurrence positions and a length entry.
	TextOptionsPositions
)

// FieldKind is the storage shape of a declared field.
type FieldKind int

const (
	// FieldKindCategorical treats its value as a single atomic token.
	FieldKindCategorical FieldKind = iota
	// FieldKindTextual tokenizes its value per TextOptions.
	FieldKindTextual
	// FieldKindBoolean is a dense bitmap column (every doc has an entry).
	FieldKindBoolean
	// FieldKindDenseInt is one int per document.
	FieldKindDenseInt
	// FieldKindDenseFloat is one float per document (bit-reinterpreted as u32).
	FieldKindDenseFloat
	// FieldKindSparseInt is an int for some documents, keyed in a posting list.
	FieldKindSparseInt
	// FieldKindSparseFloat is a float for some documents, keyed in a posting list.
	FieldKindSparseFloat
)

// FieldMetadata is the declared schema of one field.
type FieldMetadata struct {
	Index   FieldID
	Kind    FieldKind
	Options TextOptions // only meaningful when Kind == FieldKindTextual
	Stored  bool
}

// Dense reports whether this field's values land in a DenseU32FieldBuilder
// rather than a posting list.
func (m FieldMetadata) Dense() bool {
	switch m.Kind {
	case FieldKindBoolean, FieldKindDenseInt, FieldKindDenseFloat:
		return true
	default:
		return false
	}
}

// FieldValue is the tagged union of values a document can carry for one
// field. Exactly one of the typed fields is meaningful, selected by Kind.
type FieldValue struct {
	Kind       FieldKind
	Text       string
	IntValue   uint32
	FloatValue float32
}

// Categorical builds an atomic-token field value.
func Categorical(text string) FieldValue { return FieldValue{Kind: FieldKindCategorical, Text: text} }

// Textual builds a tokenized prose field value.
func Textual(text string) FieldValue { return FieldValue{Kind: FieldKindTextual, Text: text} }

// Integer builds a dense-int field value.
func Integer(n uint32) FieldValue { return FieldValue{Kind: FieldKindDenseInt, IntValue: n} }

// Floating builds a dense-float field value.
func Floating(f float32) FieldValue { return FieldValue{Kind: FieldKindDenseFloat, FloatValue: f} }

// DocField pairs a declared field with one document's value for it.
type DocField struct {
	Field FieldID
	Value FieldValue
}

// DocFields accumulates the fields of one document before insertion.
// The factory methods return the receiver so calls can be chained.
type DocFields struct {
	fields []DocField
}

// Fields returns the accumulated field values.
func (d *DocFields) Fields() []DocField { return d.fields }

// WithCategorical adds an atomic-token field; text is not split into words.
func (d *DocFields) WithCategorical(field FieldID, text string) *DocFields {
	d.fields = append(d.fields, DocField{Field: field, Value: Categorical(text)})
	return d
}

// WithTextual adds a prose field; text is tokenized at insert time.
func (d *DocFields) WithTextual(field FieldID, text string) *DocFields {
	d.fields = append(d.fields, DocField{Field: field, Value: Textual(text)})
	return d
}

// WithInteger adds a dense integer field.
func (d *DocFields) WithInteger(field FieldID, n uint32) *DocFields {
	d.fields = append(d.fields, DocField{Field: field, Value: Integer(n)})
	return d
}

// WithFloat adds a dense float field.
func (d *DocFields) WithFloat(field FieldID, f float32) *DocFields {
	d.fields = append(d.fields, DocField{Field: field, Value: Floating(f)})
	return d
}
