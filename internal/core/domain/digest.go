// Package domain contains the core types of the stash cache: digests,
// derived artifacts, cache entries, snapshots and configuration.
package domain

import "fmt"

// Digest is the fixed-width fingerprint of a script's byte content, rendered
// as 8 lowercase hexadecimal characters. It keys both derived-artifact maps.
// Identical content always yields the same digest; distinct content almost
// always differs, and no collision freedom is assumed anywhere.
type Digest string

// digestSeed is the initial state of the rolling hash.
const digestSeed uint32 = 5381

// HashContent computes the content digest for the given text.
//
// The digest is a rolling multiplicative hash over the raw bytes: each step
// multiplies the state by 33 and adds the byte value, wrapping at 32 bits.
// It is deterministic across calls and across processes, total over any
// input including the empty string, and intentionally non-cryptographic.
// The rendered form is persisted in snapshots, so the algorithm must never
// change without bumping SnapshotVersion.
func HashContent(text string) Digest {
	h := digestSeed
	for i := 0; i < len(text); i++ {
		h = h*33 + uint32(text[i])
	}
	return Digest(fmt.Sprintf("%08x", h))
}
