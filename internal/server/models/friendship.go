package models

import "time"

// FriendshipStatus enumerates the states of a friendship relation.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship is a directed relation record: the requester initiated it, the
// recipient received it. Contact listing only considers accepted relations,
// in either direction.
type Friendship struct {
	ID          string
	RequesterID string
	RecipientID string
	Status      FriendshipStatus
	CreatedAt   time.Time
}
