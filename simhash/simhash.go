package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Fingerprint computes a 64-bit SimHash of the given text.
// Tokens are lowercased word fields hashed with FNV-64a and accumulated
// into a bit vector, so fingerprints are stable across case and layout
// differences between otherwise identical pages.
func Fingerprint(text string) uint64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var vector [64]int

	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}

	return fingerprint
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether the Hamming distance between two fingerprints
// is at most the threshold.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// CountNearDuplicates returns how many texts duplicate an earlier text in
// the slice, i.e. have a fingerprint within threshold Hamming distance of
// any preceding non-empty text. Empty texts are skipped.
func CountNearDuplicates(texts []string, threshold int) int {
	var prints []uint64
	dupes := 0

	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		fp := Fingerprint(text)
		matched := false
		for _, prev := range prints {
			if Similar(fp, prev, threshold) {
				matched = true
				break
			}
		}
		if matched {
			dupes++
		} else {
			prints = append(prints, fp)
		}
	}

	return dupes
}
