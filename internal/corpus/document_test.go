package corpus_test

import (
	"encoding/binary"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/btree"
	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/corpus"
)

func vstr(buf []byte, s string) []byte {
	buf = bytestream.WriteVByte(uint64(len(s)), buf)
	return append(buf, s...)
}

func buildStoredDocument(t *testing.T, identifier uint64, name, text string, metadata [][2]string) []byte {
	t.Helper()

	var body []byte
	var tmp []byte
	for _, kv := range metadata {
		tmp = vstr(tmp, kv[0])
		tmp = vstr(tmp, kv[1])
	}

	var textBuf []byte
	textBuf = vstr(textBuf, text)

	nameBuf := vstr(nil, name)

	metadataSize := uint32(4 + len(tmp)) // count field + pairs
	textSize := uint32(len(textBuf))

	body = append(body, make([]byte, 4)...)
	binary.BigEndian.PutUint32(body[0:4], metadataSize)
	body = append(body, make([]byte, 4)...)
	binary.BigEndian.PutUint32(body[4:8], textSize)
	idBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(idBuf, identifier)
	body = append(body, idBuf...)
	body = append(body, nameBuf...)

	countBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(countBuf, uint32(len(metadata)))
	body = append(body, countBuf...)
	body = append(body, tmp...)
	body = append(body, textBuf...)

	compressed := snappy.Encode(nil, body)

	var out []byte
	out = append(out, 0x82, 'S', 'N', 'A', 'P', 'P', 'Y', 0x00)
	out = append(out, 0, 0, 0, 1) // version
	out = append(out, 0, 0, 0, 1) // compat
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(compressed)))
	out = append(out, lenBuf...)
	out = append(out, compressed...)
	return out
}

func TestDecompressRoundTrip(t *testing.T) {
	raw := buildStoredDocument(t, 42, "doc0", "hello world", [][2]string{
		{"author", "ada"},
		{"year", "1950"},
	})

	doc, err := corpus.Decompress(btree.ValueEntry{Source: raw, Start: 0, End: len(raw)})
	require.NoError(t, err)
	require.Equal(t, uint64(42), doc.Identifier)
	require.Equal(t, "doc0", doc.Name)
	require.Equal(t, "hello world", doc.Text)
	require.Equal(t, []corpus.MetadataPair{{Key: "author", Value: "ada"}, {Key: "year", Value: "1950"}}, doc.Metadata)
}

func TestDecompressRejectsMissingHeader(t *testing.T) {
	_, err := corpus.Decompress(btree.ValueEntry{Source: []byte("not a document"), Start: 0, End: 14})
	require.Error(t, err)
}
