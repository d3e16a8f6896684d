// Package corpus decodes the stored-document value format: a
// length-prefixed, Snappy-compressed blob holding a document's
// identifier, name, metadata pairs, and original text.
package corpus

import (
	"bytes"
	"encoding/binary"

	"github.com/galagoread/galagoread/internal/btree"
	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/errs"
	"github.com/golang/snappy"
)

// magicHeader is the 8-byte Xerial-style Snappy tag, followed by a
// 4-byte version and 4-byte compat field (both expected to be 1).
var magicHeader = []byte{0x82, 'S', 'N', 'A', 'P', 'P', 'Y', 0x00}

const (
	headerSize           = 16 // magicHeader(8) + version(4) + compat(4)
	expectedVersion      = 1
	expectedCompat       = 1
	compressedLengthSize = 4
)

// Document is a decoded stored document.
type Document struct {
	Identifier uint64
	Name       string
	Metadata   []MetadataPair
	Text       string
}

// MetadataPair is one key/value entry carried alongside a document.
type MetadataPair struct {
	Key   string
	Value string
}

// Decompress decodes value as one stored-document record.
func Decompress(value btree.ValueEntry) (Document, error) {
	raw := value.Bytes()
	if len(raw) < headerSize+compressedLengthSize {
		return Document{}, errs.NewTruncatedError(int64(len(raw)))
	}
	if !bytes.HasPrefix(raw, magicHeader) {
		return Document{}, errs.NewCompressionError("missing snappy header", nil)
	}
	version := binary.BigEndian.Uint32(raw[8:12])
	compat := binary.BigEndian.Uint32(raw[12:16])
	if version != expectedVersion || compat != expectedCompat {
		return Document{}, errs.NewCompressionError("unsupported version/compat", nil)
	}

	compressedLength := binary.BigEndian.Uint32(raw[headerSize : headerSize+compressedLengthSize])
	body := raw[headerSize+compressedLengthSize:]
	if uint32(len(body)) < compressedLength {
		return Document{}, errs.NewTruncatedError(int64(len(body)))
	}
	body = body[:compressedLength]

	decoded, err := snappy.Decode(nil, body)
	if err != nil {
		return Document{}, errs.NewCompressionError("snappy decode failed", err)
	}

	return parseBody(decoded)
}

func parseBody(decoded []byte) (Document, error) {
	stream := bytestream.New(decoded)

	if _, err := stream.ReadU32(); err != nil { // metadata_size, unused beyond skip-ability
		return Document{}, err
	}
	if _, err := stream.ReadU32(); err != nil { // text_size, read but not checked against the text
		return Document{}, err
	}
	identifier, err := stream.ReadU64()
	if err != nil {
		return Document{}, err
	}
	name, err := readVByteString(stream)
	if err != nil {
		return Document{}, err
	}

	metadataCount, err := stream.ReadU32()
	if err != nil {
		return Document{}, err
	}
	metadata := make([]MetadataPair, 0, metadataCount)
	for i := uint32(0); i < metadataCount; i++ {
		key, err := readVByteString(stream)
		if err != nil {
			return Document{}, err
		}
		val, err := readVByteString(stream)
		if err != nil {
			return Document{}, err
		}
		metadata = append(metadata, MetadataPair{Key: key, Value: val})
	}

	text, err := readVByteString(stream)
	if err != nil {
		return Document{}, err
	}

	return Document{Identifier: identifier, Name: name, Metadata: metadata, Text: text}, nil
}

func readVByteString(stream *bytestream.Reader) (string, error) {
	length, err := stream.ReadVByte()
	if err != nil {
		return "", err
	}
	buf, err := stream.Advance(int(length))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
