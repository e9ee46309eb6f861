package capsule

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/veilcrypt/veil-go/internal/draws"
	"github.com/veilcrypt/veil-go/pkg/veil/entropy"
	"github.com/veilcrypt/veil-go/pkg/veil/logging"
	"github.com/veilcrypt/veil-go/pkg/veil/path"
)

// Fixed domain-separation keys for the two HMAC surfaces of the format.
// They are public constants: the signatures detect accidental corruption and
// bind block runs to payloads, they do not authenticate against an attacker.
var (
	headerSignatureKey = []byte("veil/capsule/header-signature/v1")
	pathSignatureKey   = []byte("veil/capsule/path-signature/v1")
)

// ErrInvalidPath reports a path selector outside the two defined variants.
var ErrInvalidPath = errors.New("capsule: invalid path selector")

// EncodeParams describes one capsule to build.
type EncodeParams struct {
	// TrueData and FalseData are the two payloads. Either may be empty.
	TrueData  []byte
	FalseData []byte

	// BlockType selects the arrangement. Zero defaults to Sequential.
	BlockType BlockType

	// BlockSize is the entropy block size. Zero defaults to
	// DefaultBlockSize.
	BlockSize int

	// Shuffle applies the keyed byte permutation to the payload.
	Shuffle bool

	// Seed overrides the per-capsule random seed, for reproducible
	// encodes in tests. Nil draws a fresh seed from the OS RNG.
	Seed []byte
}

// DecodeOptions tunes decoding. The zero value is usable.
type DecodeOptions struct {
	// Logger receives the integrity-mismatch warning. Nil keeps decoding
	// silent.
	Logger logging.Logger
}

// DecodeResult is the outcome of reassembling one path from a capsule.
type DecodeResult struct {
	// Data is the reassembled payload, possibly truncated when Partial.
	Data []byte

	// Signature is the per-path signature stored in the capsule. Compare
	// against PathSignature(Data) to detect payload substitution.
	Signature []byte

	// IntegrityOK reports whether the header signature matched the body.
	// A mismatch is deliberately not an error.
	IntegrityOK bool

	// Partial reports that reassembly stopped early on an impossible
	// block and Data holds only what was recovered up to that point.
	Partial bool
}

// PathSignature returns the HMAC-SHA256 bound into a capsule for one
// payload.
func PathSignature(data []byte) []byte {
	return signWith(pathSignatureKey, data)
}

// Encode serializes the two payloads into a single capsule.
func Encode(_ context.Context, params *EncodeParams) ([]byte, error) {
	if params == nil {
		return nil, errors.New("capsule: nil params")
	}
	bt := params.BlockType
	if bt == 0 {
		bt = Sequential
	}
	if !bt.Valid() {
		return nil, fmt.Errorf("%w: unknown block type %d", ErrInvalidCapsule, bt)
	}
	bs := params.BlockSize
	if bs == 0 {
		bs = DefaultBlockSize
	}
	if bs < 1 || bs > MaxBlockSize {
		return nil, fmt.Errorf("%w: entropy block size %d out of range", ErrInvalidCapsule, bs)
	}

	seed := params.Seed
	if seed == nil {
		var err error
		seed, err = entropy.NewSeed()
		if err != nil {
			return nil, err
		}
	}
	if len(seed) != entropy.SeedSize {
		return nil, fmt.Errorf("capsule: seed must be %d bytes", entropy.SeedSize)
	}

	pad := entropy.NewSource(subSeed(seed, "capsule_padding"))
	trueBlocks := splitBlocks(params.TrueData, bs, pad)
	falseBlocks := splitBlocks(params.FalseData, bs, pad)

	payload := buildPayload(bt,
		PathSignature(params.TrueData), PathSignature(params.FalseData),
		trueBlocks, falseBlocks)

	body := payload
	var flags Flags
	if params.Shuffle {
		flags |= FlagShuffled
		perm := entropy.NewSource(subSeed(seed, "capsule_shuffle")).Perm(len(payload))
		shuffled := make([]byte, len(payload))
		for i, p := range perm {
			shuffled[i] = payload[p]
		}
		body = make([]byte, 0, entropy.SeedSize+len(shuffled))
		body = append(body, seed...)
		body = append(body, shuffled...)
	}

	h := header{
		blockType: bt,
		blockSize: bs,
		flags:     flags,
		signature: signWith(headerSignatureKey, body),
	}
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(body))
	h.encode(&buf)
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode reassembles the payload for the requested path. Structural problems
// return ErrInvalidCapsule; integrity and block-level damage degrade to
// warnings and partial results instead, see the package documentation.
func Decode(ctx context.Context, capsule []byte, p path.Path, opts *DecodeOptions) (*DecodeResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidPath
	}
	h, err := parseHeader(capsule)
	if err != nil {
		return nil, err
	}
	log := logging.Nop()
	if opts != nil && opts.Logger != nil {
		log = opts.Logger
	}

	body := capsule[HeaderSize:]
	payload := body
	if h.shuffled() {
		if len(body) < entropy.SeedSize+2*SignatureSize {
			return nil, fmt.Errorf("%w: shuffled capsule too short", ErrInvalidCapsule)
		}
		seed := body[:entropy.SeedSize]
		shuffled := body[entropy.SeedSize:]
		perm := entropy.NewSource(subSeed(seed, "capsule_shuffle")).Perm(len(shuffled))
		payload = make([]byte, len(shuffled))
		for i, sp := range perm {
			payload[sp] = shuffled[i]
		}
	}

	res := &DecodeResult{
		IntegrityOK: hmac.Equal(h.signature, signWith(headerSignatureKey, body)),
	}
	if !res.IntegrityOK {
		// Non-fatal: refusing to decode here would hand an observer a
		// failure signal that honest reads never produce.
		log.Warn(ctx, "capsule signature mismatch, continuing decode",
			"capsule_len", len(capsule))
	}

	r := &byteReader{buf: payload}
	switch h.blockType {
	case Sequential:
		decodeSequential(r, h.blockSize, p, res)
	case Interleave:
		decodeInterleave(r, h.blockSize, p, res)
	}
	return res, nil
}

func decodeSequential(r *byteReader, blockSize int, p path.Path, res *DecodeResult) {
	for _, owner := range []path.Path{path.True, path.False} {
		sig := r.take(SignatureSize)
		count := int(r.u32())
		if r.failed || count > maxBlockCount(r, blockSize) {
			res.Partial = true
			return
		}
		if owner == p {
			res.Signature = sig
			res.Data, res.Partial = readRun(r, blockSize, count)
			return
		}
		// Skip the other run.
		r.skip(count * (4 + blockSize))
	}
}

func decodeInterleave(r *byteReader, blockSize int, p path.Path, res *DecodeResult) {
	trueSig := r.take(SignatureSize)
	falseSig := r.take(SignatureSize)
	trueCount := int(r.u32())
	falseCount := int(r.u32())
	if r.failed || trueCount+falseCount > maxBlockCount(r, blockSize) {
		res.Partial = true
		if !r.failed {
			if p == path.True {
				res.Signature = trueSig
			} else {
				res.Signature = falseSig
			}
		}
		return
	}
	if p == path.True {
		res.Signature = trueSig
	} else {
		res.Signature = falseSig
	}

	var data []byte
	for _, owner := range interleaveOrder(trueCount, falseCount) {
		if owner != p {
			r.skip(4 + blockSize)
			continue
		}
		chunk, bad := readBlock(r, blockSize)
		if bad {
			res.Partial = true
			break
		}
		data = append(data, chunk...)
	}
	res.Data = data
}

// readRun reassembles count consecutive blocks, returning the recovered
// bytes and whether reassembly stopped early.
func readRun(r *byteReader, blockSize, count int) ([]byte, bool) {
	var data []byte
	for i := 0; i < count; i++ {
		chunk, bad := readBlock(r, blockSize)
		if bad {
			return data, true
		}
		data = append(data, chunk...)
	}
	return data, false
}

// readBlock reads one encoded block. A declared length that exceeds the
// block size or the remaining buffer marks the block as impossible.
func readBlock(r *byteReader, blockSize int) (chunk []byte, bad bool) {
	declared := int(r.u32())
	block := r.take(blockSize)
	if r.failed || declared > blockSize {
		return nil, true
	}
	return block[:declared], false
}

// maxBlockCount bounds a declared block count by what the remaining buffer
// could possibly hold. Counts come from attacker-controlled bytes; without
// the bound a corrupt capsule could demand enormous allocations.
func maxBlockCount(r *byteReader, blockSize int) int {
	return (len(r.buf)-r.pos)/(4+blockSize) + 1
}

// interleaveOrder returns the owner of each block position: alternating
// while both runs have blocks left, then the remainder of the longer run.
func interleaveOrder(trueCount, falseCount int) []path.Path {
	order := make([]path.Path, 0, trueCount+falseCount)
	ti, fi := 0, 0
	for ti < trueCount || fi < falseCount {
		takeTrue := ti < trueCount
		if takeTrue && fi < falseCount {
			takeTrue = (ti+fi)%2 == 0
		}
		if takeTrue {
			order = append(order, path.True)
			ti++
		} else {
			order = append(order, path.False)
			fi++
		}
	}
	return order
}

func buildPayload(bt BlockType, trueSig, falseSig []byte, trueBlocks, falseBlocks [][]byte) []byte {
	var buf bytes.Buffer
	switch bt {
	case Sequential:
		buf.Write(trueSig)
		writeU32(&buf, uint32(len(trueBlocks)))
		for _, b := range trueBlocks {
			buf.Write(b)
		}
		buf.Write(falseSig)
		writeU32(&buf, uint32(len(falseBlocks)))
		for _, b := range falseBlocks {
			buf.Write(b)
		}
	case Interleave:
		buf.Write(trueSig)
		buf.Write(falseSig)
		writeU32(&buf, uint32(len(trueBlocks)))
		writeU32(&buf, uint32(len(falseBlocks)))
		ti, fi := 0, 0
		for _, owner := range interleaveOrder(len(trueBlocks), len(falseBlocks)) {
			if owner == path.True {
				buf.Write(trueBlocks[ti])
				ti++
			} else {
				buf.Write(falseBlocks[fi])
				fi++
			}
		}
	}
	return buf.Bytes()
}

// splitBlocks chops data into encoded blocks of exactly 4+blockSize bytes:
// a little-endian length, the chunk, and padding from the capsule's
// deterministic entropy stream. Empty data yields no blocks.
func splitBlocks(data []byte, blockSize int, pad *entropy.Source) [][]byte {
	if len(data) == 0 {
		return nil
	}
	count := (len(data) + blockSize - 1) / blockSize
	blocks := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		chunk := data[i*blockSize:]
		if len(chunk) > blockSize {
			chunk = chunk[:blockSize]
		}
		block := make([]byte, 0, 4+blockSize)
		var u32 [4]byte
		binary.LittleEndian.PutUint32(u32[:], uint32(len(chunk)))
		block = append(block, u32[:]...)
		block = append(block, chunk...)
		block = append(block, pad.Bytes(blockSize-len(chunk))...)
		blocks = append(blocks, block)
	}
	return blocks
}

func subSeed(seed []byte, label string) []byte {
	return draws.Bytes(seed, nil, label)[:entropy.SeedSize]
}

func signWith(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], v)
	buf.Write(u32[:])
}

// byteReader is a bounds-checked sequential reader. Reads past the end mark
// the reader failed instead of panicking; callers translate that into
// partial results.
type byteReader struct {
	buf    []byte
	pos    int
	failed bool
}

func (r *byteReader) take(n int) []byte {
	if r.failed || n < 0 || r.pos+n > len(r.buf) {
		r.failed = true
		return nil
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *byteReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *byteReader) skip(n int) {
	if r.failed || n < 0 || r.pos+n > len(r.buf) {
		r.failed = true
		return
	}
	r.pos += n
}
