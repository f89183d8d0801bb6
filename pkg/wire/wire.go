// Package wire implements kMOSAIC's canonical serialization (C9): every
// composite object has a single deterministic byte encoding, all length
// fields are little-endian u32, and decoders strictly reject truncated
// input, over-long parts, and trailing bytes.
package wire

import (
	"encoding/binary"

	qerrors "github.com/kmosaic/kmosaic/internal/errors"
)

// MaxPartSize bounds any single length-prefixed part during decoding,
// guarding against a maliciously large length field forcing a huge
// allocation before the real data has even arrived.
const MaxPartSize = 1 << 20 // 1 MiB

// Writer appends canonically-encoded fields to an internal buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteU32 appends n as 4 little-endian bytes.
func (w *Writer) WriteU32(n uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], n)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteBytes appends a length prefix followed by b.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteRaw appends b with no length prefix, for fixed-size fields whose
// length is implied by the wire format rather than carried on the wire.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint32Array appends vals as a length-prefixed array of 4-byte
// little-endian words (the "int32 LE array" wire form used for matrices,
// vectors, and tensors).
func (w *Writer) WriteUint32Array(vals []uint32) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteU32(v)
	}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader consumes canonically-encoded fields from a fixed buffer, rejecting
// truncation and over-long parts as it goes.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadU32 reads 4 little-endian bytes.
func (r *Reader) ReadU32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, qerrors.NewCryptoError("wire.ReadU32", qerrors.ErrEncodingError)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

// ReadBytes reads a length prefix and exactly that many following bytes,
// rejecting lengths beyond MaxPartSize or beyond the remaining buffer.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, qerrors.NewCryptoError("wire.ReadBytes", qerrors.ErrEncodingError)
	}
	if n > MaxPartSize {
		return nil, qerrors.NewCryptoError("wire.ReadBytes", qerrors.ErrEncodingError)
	}
	if r.off+int(n) > len(r.buf) {
		return nil, qerrors.NewCryptoError("wire.ReadBytes", qerrors.ErrEncodingError)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return out, nil
}

// ReadRaw reads exactly n bytes with no length prefix.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, qerrors.NewCryptoError("wire.ReadRaw", qerrors.ErrEncodingError)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

// ReadUint32Array reads a length-prefixed array of 4-byte little-endian
// words, rejecting counts beyond MaxPartSize/4 elements.
func (r *Reader) ReadUint32Array() ([]uint32, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if count > MaxPartSize/4 {
		return nil, qerrors.NewCryptoError("wire.ReadUint32Array", qerrors.ErrEncodingError)
	}
	out := make([]uint32, count)
	for i := range out {
		v, err := r.ReadU32()
		if err != nil {
			return nil, qerrors.NewCryptoError("wire.ReadUint32Array", qerrors.ErrEncodingError)
		}
		out[i] = v
	}
	return out, nil
}

// Remaining returns the unconsumed tail of the buffer without advancing the
// cursor, for callers that hand off to a nested decoder for the rest of the
// message.
func (r *Reader) Remaining() []byte {
	return r.buf[r.off:]
}

// Done reports whether every byte of the buffer has been consumed. Decoders
// must call this at the end of a top-level Deserialize and reject any
// trailing bytes.
func (r *Reader) Done() bool {
	return r.off == len(r.buf)
}

// RequireDone returns an encoding error if the buffer has unconsumed
// trailing bytes.
func (r *Reader) RequireDone() error {
	if !r.Done() {
		return qerrors.NewCryptoError("wire.RequireDone", qerrors.ErrEncodingError)
	}
	return nil
}
