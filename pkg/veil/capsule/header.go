package capsule

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the fixed byte length of a capsule header.
	HeaderSize = 52

	// SignatureSize is the length of the header and per-path signatures.
	SignatureSize = 32

	// Version is the only wire version this package reads and writes.
	Version = 1

	// DefaultBlockSize is the entropy block size used when the caller does
	// not pick one.
	DefaultBlockSize = 32

	// MaxBlockSize bounds the entropy block size a capsule may declare.
	// Headers are attacker-controlled; the bound keeps a hostile capsule
	// from requesting absurd allocations.
	MaxBlockSize = 1 << 20
)

// marker identifies a capsule. The byte values are part of the wire
// contract.
var marker = []byte{0xCA, 0xB0, 0x0D, 0xCA}

// BlockType selects the payload arrangement.
type BlockType uint32

const (
	// Sequential lays out the complete true run followed by the false run.
	Sequential BlockType = 1

	// Interleave alternates true and false blocks.
	Interleave BlockType = 2
)

// Valid reports whether bt is a defined arrangement.
func (bt BlockType) Valid() bool {
	return bt == Sequential || bt == Interleave
}

// String returns a human-readable name for the block type.
func (bt BlockType) String() string {
	switch bt {
	case Sequential:
		return "sequential"
	case Interleave:
		return "interleave"
	default:
		return fmt.Sprintf("BlockType(%d)", uint32(bt))
	}
}

// Flags is the header flag word.
type Flags uint32

// FlagShuffled marks a capsule whose payload went through the keyed byte
// permutation; the 16-byte shuffle seed follows the header.
const FlagShuffled Flags = 1 << 0

// ErrInvalidCapsule reports a structurally unreadable capsule: too short,
// wrong marker, unsupported version, or malformed header fields.
var ErrInvalidCapsule = errors.New("capsule: invalid capsule")

// Info is the public view of a parsed capsule header.
type Info struct {
	BlockType BlockType
	BlockSize int
	Flags     Flags
	Shuffled  bool

	// Signature is the stored HMAC over everything after the header.
	Signature []byte
}

// Inspect parses and validates the header of a capsule without decoding any
// payload.
func Inspect(capsule []byte) (*Info, error) {
	h, err := parseHeader(capsule)
	if err != nil {
		return nil, err
	}
	return &Info{
		BlockType: h.blockType,
		BlockSize: h.blockSize,
		Flags:     h.flags,
		Shuffled:  h.shuffled(),
		Signature: h.signature,
	}, nil
}

// header is the parsed fixed-size prefix.
type header struct {
	blockType BlockType
	blockSize int
	flags     Flags
	signature []byte
}

func (h *header) shuffled() bool {
	return h.flags&FlagShuffled != 0
}

func (h *header) encode(buf *bytes.Buffer) {
	buf.Write(marker)
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], Version)
	buf.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], uint32(h.blockType))
	buf.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], uint32(h.blockSize))
	buf.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], uint32(h.flags))
	buf.Write(u32[:])
	buf.Write(h.signature)
}

func parseHeader(capsule []byte) (*header, error) {
	if len(capsule) < HeaderSize+2*SignatureSize {
		return nil, fmt.Errorf("%w: %d bytes is below the minimum capsule size", ErrInvalidCapsule, len(capsule))
	}
	if !bytes.Equal(capsule[0:4], marker) {
		return nil, fmt.Errorf("%w: marker mismatch", ErrInvalidCapsule)
	}
	if v := binary.LittleEndian.Uint32(capsule[4:8]); v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidCapsule, v)
	}

	h := &header{
		blockType: BlockType(binary.LittleEndian.Uint32(capsule[8:12])),
		blockSize: int(binary.LittleEndian.Uint32(capsule[12:16])),
		flags:     Flags(binary.LittleEndian.Uint32(capsule[16:20])),
		signature: capsule[20:52],
	}
	if !h.blockType.Valid() {
		return nil, fmt.Errorf("%w: unknown block type %d", ErrInvalidCapsule, h.blockType)
	}
	if h.blockSize < 1 || h.blockSize > MaxBlockSize {
		return nil, fmt.Errorf("%w: entropy block size %d out of range", ErrInvalidCapsule, h.blockSize)
	}
	if h.flags&^FlagShuffled != 0 {
		return nil, fmt.Errorf("%w: unknown flags %#x", ErrInvalidCapsule, uint32(h.flags))
	}
	return h, nil
}
