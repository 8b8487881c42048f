package models

import "time"

// Message is one immutable encrypted envelope between two users. The body is
// stored twice: once encrypted for the sender and once for the receiver, so
// the server never holds plaintext. There is no update path.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string

	SenderCiphertext   []byte
	ReceiverCiphertext []byte

	// AttachmentKey, when non-empty, is the object-storage key of an
	// encrypted attachment uploaded by the sender via a presigned URL.
	AttachmentKey string

	CreatedAt time.Time

	// Seq is the insertion order assigned by the store, used to break
	// CreatedAt ties when ordering a thread.
	Seq int64
}

// SlotFor returns the ciphertext addressed to userID, or nil if userID is
// neither sender nor receiver.
func (m *Message) SlotFor(userID string) []byte {
	switch userID {
	case m.SenderID:
		return m.SenderCiphertext
	case m.ReceiverID:
		return m.ReceiverCiphertext
	default:
		return nil
	}
}
