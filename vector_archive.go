package gomotion

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// maxArchiveRecord bounds the size of a single archive record body.
const maxArchiveRecord = 64 << 20

// VectorRecord is one entry of a vector archive: the vector field estimated
// for a frame pair together with the parameters needed to replay it.
type VectorRecord struct {
	// Index of the frame pair, usually the index of the current frame
	// minus one.
	PairIndex    int          `msgpack:"pair"`
	Width        int          `msgpack:"w"`
	Height       int          `msgpack:"h"`
	BlockSize    int          `msgpack:"bs"`
	SearchRadius int          `msgpack:"sr"`
	Window       WindowPolicy `msgpack:"win"`
	Vectors      VectorField  `msgpack:"mv"`
}

// archiveVector is the compact on-disk form of a MotionVector. msgpack
// stores each integer in the smallest form that holds its value.
type archiveVector struct {
	_msgpack   struct{} `msgpack:",as_array"`
	X, Y, U, V int64
	Cost       float64
}

// EncodeMsgpack stores the field as an array of compact vectors.
func (vf VectorField) EncodeMsgpack(enc *msgpack.Encoder) error {
	compact := make([]archiveVector, len(vf))
	for i, mv := range vf {
		compact[i] = archiveVector{X: int64(mv.X), Y: int64(mv.Y),
			U: int64(mv.U), V: int64(mv.V), Cost: mv.Cost}
	}
	return enc.Encode(compact)
}

// DecodeMsgpack reads a field written by EncodeMsgpack.
func (vf *VectorField) DecodeMsgpack(dec *msgpack.Decoder) error {
	var compact []archiveVector
	if err := dec.Decode(&compact); err != nil {
		return err
	}
	out := make(VectorField, len(compact))
	for i, c := range compact {
		out[i] = MotionVector{X: int(c.X), Y: int(c.Y), U: int(c.U),
			V: int(c.V), Cost: c.Cost}
	}
	*vf = out
	return nil
}

// VectorArchiveWriter appends VectorRecords to a zstd-compressed stream.
//
// Each record is stored as a 4-byte big-endian length followed by its msgpack
// encoding. A VectorArchiveWriter is not safe for concurrent use.
type VectorArchiveWriter struct {
	enc *zstd.Encoder
	hdr [4]byte
}

// NewVectorArchiveWriter starts an archive on w. Close must be called to
// flush the compressed stream; it does not close w.
func NewVectorArchiveWriter(w io.Writer) (*VectorArchiveWriter, error) {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &VectorArchiveWriter{enc: enc}, nil
}

// Write appends rec to the archive.
func (aw *VectorArchiveWriter) Write(rec VectorRecord) error {
	body, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("msgpack marshal: %w", err)
	}
	if len(body) > maxArchiveRecord {
		return fmt.Errorf("%w: record of %d bytes exceeds limit",
			ErrCorruptArchive, len(body))
	}

	binary.BigEndian.PutUint32(aw.hdr[:], uint32(len(body)))
	if _, err := aw.enc.Write(aw.hdr[:]); err != nil {
		return fmt.Errorf("write record header: %w", err)
	}
	if _, err := aw.enc.Write(body); err != nil {
		return fmt.Errorf("write record body: %w", err)
	}
	return nil
}

// Close flushes and terminates the compressed stream.
func (aw *VectorArchiveWriter) Close() error { return aw.enc.Close() }

// VectorArchiveReader reads records written by VectorArchiveWriter.
type VectorArchiveReader struct {
	dec *zstd.Decoder
	r   *bufio.Reader
	hdr [4]byte
}

// NewVectorArchiveReader opens an archive stream. Close releases the
// decoder; it does not close r.
func NewVectorArchiveReader(r io.Reader) (*VectorArchiveReader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	return &VectorArchiveReader{dec: dec, r: bufio.NewReader(dec)}, nil
}

// Next returns the next record, or io.EOF after the last one. A stream that
// ends inside a record or does not decode yields ErrCorruptArchive.
func (ar *VectorArchiveReader) Next() (VectorRecord, error) {
	var rec VectorRecord

	if _, err := io.ReadFull(ar.r, ar.hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return rec, io.EOF
		}
		return rec, fmt.Errorf("%w: record header: %v", ErrCorruptArchive,
			err)
	}

	n := binary.BigEndian.Uint32(ar.hdr[:])
	if n > maxArchiveRecord {
		return rec, fmt.Errorf("%w: record length %d exceeds limit",
			ErrCorruptArchive, n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(ar.r, body); err != nil {
		return rec, fmt.Errorf("%w: record body: %v", ErrCorruptArchive, err)
	}
	if err := msgpack.Unmarshal(body, &rec); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	return rec, nil
}

// Close releases the decoder resources.
func (ar *VectorArchiveReader) Close() { ar.dec.Close() }
