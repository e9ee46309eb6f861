package analyzer

import (
	"crypto/sha256"
	"math"

	"github.com/veilcrypt/veil-go/pkg/veil/capsule"
)

// Level buckets a resistance score.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Result summarizes the statistical profile of one capsule. It is a pure
// value object: created per Analyze call and never mutated afterwards.
type Result struct {
	// PayloadSize is the number of analyzed (post-header) bytes.
	PayloadSize int

	// Entropy is the Shannon entropy of the payload in bits per byte;
	// NormalizedEntropy divides by the 8-bit maximum.
	Entropy           float64
	NormalizedEntropy float64

	// BlockEntropyUniformity is 1/(1+stdev) over per-window entropies.
	BlockEntropyUniformity float64

	// ChiSquare is the byte-histogram distance from uniform;
	// DistributionUniformity maps it to (0,1] via 1/(1+chi2/len).
	ChiSquare              float64
	DistributionUniformity float64

	// AvgBlockSimilarity averages the similarity of adjacent windows.
	AvgBlockSimilarity float64

	// ResistanceScore is the 0-10 composite; ResistanceLevel its bucket.
	ResistanceScore float64
	ResistanceLevel Level
}

// Analyze computes the statistical profile of a capsule. The capsule must
// have a readable header (the analyzer needs the declared entropy block
// size); its payload bytes are taken as-is, shuffled or not.
func Analyze(blob []byte) (*Result, error) {
	info, err := capsule.Inspect(blob)
	if err != nil {
		return nil, err
	}
	payload := blob[capsule.HeaderSize:]

	res := &Result{PayloadSize: len(payload)}
	res.Entropy = shannonEntropy(payload)
	res.NormalizedEntropy = res.Entropy / 8

	res.BlockEntropyUniformity = blockEntropyUniformity(payload, info.BlockSize)

	res.ChiSquare = chiSquare(payload)
	res.DistributionUniformity = 1 / (1 + res.ChiSquare/float64(len(payload)))

	res.AvgBlockSimilarity = avgBlockSimilarity(payload, info.BlockSize)

	entropyScore := math.Min(3, res.NormalizedEntropy*3)
	distributionScore := math.Min(3, res.DistributionUniformity*3)
	blockScore := 4 * (1 - res.AvgBlockSimilarity)
	res.ResistanceScore = entropyScore + distributionScore + blockScore

	switch {
	case res.ResistanceScore >= 8:
		res.ResistanceLevel = LevelHigh
	case res.ResistanceScore >= 5:
		res.ResistanceLevel = LevelMedium
	default:
		res.ResistanceLevel = LevelLow
	}
	return res, nil
}

func shannonEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var hist [256]int
	for _, b := range data {
		hist[b]++
	}
	var h float64
	n := float64(len(data))
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

// blockEntropyUniformity slices the payload into declared-size windows,
// skipping stub windows shorter than four bytes, and maps the standard
// deviation of their entropies to (0,1].
func blockEntropyUniformity(payload []byte, blockSize int) float64 {
	var entropies []float64
	for off := 0; off < len(payload); off += blockSize {
		end := off + blockSize
		if end > len(payload) {
			end = len(payload)
		}
		if end-off < 4 {
			continue
		}
		entropies = append(entropies, shannonEntropy(payload[off:end]))
	}
	return 1 / (1 + stdev(entropies))
}

func chiSquare(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var hist [256]int
	for _, b := range data {
		hist[b]++
	}
	expected := float64(len(data)) / 256
	var chi2 float64
	for _, c := range hist {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	return chi2
}

// avgBlockSimilarity compares each pair of adjacent non-overlapping windows:
// the fraction of positions holding equal bytes, blended evenly with the
// fraction of equal bytes in the windows' SHA-256 digests.
func avgBlockSimilarity(payload []byte, blockSize int) float64 {
	var sims []float64
	for off := 0; off+2*blockSize <= len(payload); off += 2 * blockSize {
		a := payload[off : off+blockSize]
		b := payload[off+blockSize : off+2*blockSize]
		sims = append(sims, (byteMatchRatio(a, b)+digestMatchRatio(a, b))/2)
	}
	if len(sims) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sims {
		sum += s
	}
	return sum / float64(len(sims))
}

func byteMatchRatio(a, b []byte) float64 {
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

func digestMatchRatio(a, b []byte) float64 {
	da := sha256.Sum256(a)
	db := sha256.Sum256(b)
	matches := 0
	for i := range da {
		if da[i] == db[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(da))
}

func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
