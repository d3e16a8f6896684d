package corpus

import (
	"encoding/binary"

	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/golang/snappy"
)

// Compress encodes doc into the same Xerial-framed, Snappy-compressed
// record shape Decompress reads back: version/compat header, a
// compressed-length prefix, then a body of metadata_size, text_size,
// identifier, name, metadata pairs, and text.
func Compress(doc Document) []byte {
	var metadataBuf []byte
	for _, pair := range doc.Metadata {
		metadataBuf = writeVByteString(metadataBuf, pair.Key)
		metadataBuf = writeVByteString(metadataBuf, pair.Value)
	}

	var textBuf []byte
	textBuf = writeVByteString(textBuf, doc.Text)

	nameBuf := writeVByteString(nil, doc.Name)

	metadataSize := uint32(4 + len(metadataBuf)) // count field + pairs
	textSize := uint32(len(textBuf))

	var body []byte
	body = append(body, 0, 0, 0, 0)
	binary.BigEndian.PutUint32(body[0:4], metadataSize)
	body = append(body, 0, 0, 0, 0)
	binary.BigEndian.PutUint32(body[4:8], textSize)

	idBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(idBuf, doc.Identifier)
	body = append(body, idBuf...)
	body = append(body, nameBuf...)

	countBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(countBuf, uint32(len(doc.Metadata)))
	body = append(body, countBuf...)
	body = append(body, metadataBuf...)
	body = append(body, textBuf...)

	compressed := snappy.Encode(nil, body)

	out := make([]byte, 0, headerSize+compressedLengthSize+len(compressed))
	out = append(out, magicHeader...)
	versionBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(versionBuf, expectedVersion)
	out = append(out, versionBuf...)
	compatBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(compatBuf, expectedCompat)
	out = append(out, compatBuf...)
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(compressed)))
	out = append(out, lenBuf...)
	out = append(out, compressed...)
	return out
}

func writeVByteString(buf []byte, s string) []byte {
	buf = bytestream.WriteVByte(uint64(len(s)), buf)
	return append(buf, s...)
}
