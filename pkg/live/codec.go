package live

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/recera/graphview/pkg/svg"
)

// maxStringLen bounds decoded strings so a corrupt frame cannot force a
// huge allocation
const maxStringLen = 1 << 20

// Encoder handles encoding of live protocol messages
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new encoder
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteUvarint writes an unsigned varint
func (e *Encoder) WriteUvarint(v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	_, err := e.w.Write(buf[:n])
	return err
}

// WriteString writes a length-prefixed string
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

// WriteBytes writes raw bytes
func (e *Encoder) WriteBytes(b ...byte) error {
	_, err := e.w.Write(b)
	return err
}

// WritePatch writes one patch: op, node id, then op-specific fields
func (e *Encoder) WritePatch(p svg.Patch) error {
	if err := e.WriteBytes(byte(p.Op)); err != nil {
		return err
	}
	if err := e.WriteUvarint(uint64(p.NodeID)); err != nil {
		return err
	}
	switch p.Op {
	case svg.OpInsertNode:
		if err := e.WriteUvarint(uint64(p.ParentID)); err != nil {
			return err
		}
		return e.WriteString(p.Tag)
	case svg.OpSetAttribute:
		if err := e.WriteString(p.Key); err != nil {
			return err
		}
		return e.WriteString(p.Value)
	default:
		return fmt.Errorf("unknown patch operation: %v", p.Op)
	}
}

// Decoder handles decoding of live protocol messages
type Decoder struct {
	r   io.ByteReader
	rr  io.Reader
	buf []byte
}

// NewDecoder creates a new decoder over a byte slice
func NewDecoder(data []byte) *Decoder {
	r := bytes.NewReader(data)
	return &Decoder{r: r, rr: r, buf: make([]byte, 64)}
}

// ReadUvarint reads an unsigned varint
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d.r)
}

// ReadByte reads one byte
func (d *Decoder) ReadByte() (byte, error) {
	return d.r.ReadByte()
}

// ReadString reads a length-prefixed string
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > maxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit", length)
	}
	if length > uint64(len(d.buf)) {
		d.buf = make([]byte, length)
	}
	if _, err := io.ReadFull(d.rr, d.buf[:length]); err != nil {
		return "", err
	}
	return string(d.buf[:length]), nil
}

// ReadPatch reads one patch written by WritePatch
func (d *Decoder) ReadPatch() (svg.Patch, error) {
	op, err := d.ReadByte()
	if err != nil {
		return svg.Patch{}, err
	}
	id, err := d.ReadUvarint()
	if err != nil {
		return svg.Patch{}, err
	}
	p := svg.Patch{Op: svg.PatchOp(op), NodeID: uint32(id)}

	switch p.Op {
	case svg.OpInsertNode:
		parent, err := d.ReadUvarint()
		if err != nil {
			return p, err
		}
		p.ParentID = uint32(parent)
		if p.Tag, err = d.ReadString(); err != nil {
			return p, err
		}
	case svg.OpSetAttribute:
		if p.Key, err = d.ReadString(); err != nil {
			return p, err
		}
		if p.Value, err = d.ReadString(); err != nil {
			return p, err
		}
	default:
		return p, fmt.Errorf("unknown patch operation: %v", p.Op)
	}
	return p, nil
}

// EncodePatches encodes a patches frame
func EncodePatches(patches []svg.Patch) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.WriteBytes(byte(FramePatches)); err != nil {
		return nil, err
	}
	if err := enc.WriteUvarint(uint64(len(patches))); err != nil {
		return nil, err
	}
	for _, p := range patches {
		if err := enc.WritePatch(p); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodePatches decodes a patches frame
func DecodePatches(data []byte) ([]svg.Patch, error) {
	if len(data) == 0 {
		return nil, errors.New("empty frame")
	}
	if data[0] != byte(FramePatches) {
		return nil, errors.New("not a patches frame")
	}

	dec := NewDecoder(data[1:])
	count, err := dec.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("failed to decode patch count: %w", err)
	}
	if count > uint64(len(data)) {
		return nil, fmt.Errorf("patch count %d exceeds frame size", count)
	}

	patches := make([]svg.Patch, 0, count)
	for i := uint64(0); i < count; i++ {
		p, err := dec.ReadPatch()
		if err != nil {
			return nil, fmt.Errorf("failed to decode patch %d: %w", i, err)
		}
		patches = append(patches, p)
	}
	return patches, nil
}
