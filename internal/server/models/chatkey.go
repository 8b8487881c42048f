package models

import "strings"

// ChatKey is the pairwise symmetric key record for one unordered user pair.
// The same key is stored twice, each copy encrypted under one participant's
// public key. Exactly one ChatKey row exists per pair; the storage layer
// enforces uniqueness on PairKey.
type ChatKey struct {
	PairKey string // canonical unordered-pair key, see PairKey()

	UserA string // smaller id after canonical ordering
	UserB string // larger id

	CiphertextA []byte // chat key encrypted under UserA's public key
	CiphertextB []byte // chat key encrypted under UserB's public key
}

// PairKey computes the canonical key for an unordered user pair by sorting
// the two ids. PairKey(a, b) == PairKey(b, a).
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}

// SortPair returns the two ids in canonical order.
func SortPair(a, b string) (string, string) {
	if strings.Compare(a, b) > 0 {
		return b, a
	}
	return a, b
}

// SlotFor returns the ciphertext addressed to userID, or nil if userID is
// not a participant.
func (k *ChatKey) SlotFor(userID string) []byte {
	switch userID {
	case k.UserA:
		return k.CiphertextA
	case k.UserB:
		return k.CiphertextB
	default:
		return nil
	}
}
