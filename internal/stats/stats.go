// Package stats defines the corpus-wide counters a scorer needs: how many
// documents mention a term, how often, and over what collection. Grounded
// on original_source/src/stats.rs.
package stats

// CountStats summarizes one term's (or field's) occurrence across the
// whole corpus, gathered from a Lengths part plus a term's posting list.
type CountStats struct {
	CollectionFrequency uint64
	DocumentFrequency   uint64
	CollectionLength    uint64
	DocumentCount       uint64
}

// AverageDocLength returns CollectionLength/DocumentCount, or 0 when the
// corpus has no documents.
func (c CountStats) AverageDocLength() float32 {
	if c.DocumentCount == 0 {
		return 0
	}
	return float32(float64(c.CollectionLength) / float64(c.DocumentCount))
}
