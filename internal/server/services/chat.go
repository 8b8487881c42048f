package services

import (
	"context"
	"crypto/rsa"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sealedchat/sealedchat/internal/common"
	"github.com/sealedchat/sealedchat/internal/cryptox"
	"github.com/sealedchat/sealedchat/internal/server/models"
	"github.com/sealedchat/sealedchat/internal/server/repositories/repomanager"
	"github.com/sealedchat/sealedchat/internal/server/repositories/userscache"
)

// ChatService implements the chat key exchange, the message envelope store
// and the friendship-graph contact listing.
type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *userscache.Cache
}

// NewChatService constructs a ChatService. cache may be nil.
func NewChatService(db *sql.DB, m repomanager.RepositoryManager, cache *userscache.Cache) *ChatService {
	return &ChatService{db: db, repomanager: m, cache: cache}
}

// Establish returns the chat key pairing for the unordered pair {a, b},
// creating it on first use. Creation generates a fresh 256-bit key and wraps
// one copy under each participant's public key. The insert relies on the
// storage uniqueness constraint on the pair key: if a concurrent call wins
// the insert, this call re-reads and returns the winner's pairing, so the
// operation is idempotent and never re-keys an existing pair.
func (s *ChatService) Establish(ctx context.Context, a, b string) (*models.ChatKey, error) {
	if a == b {
		return nil, fmt.Errorf("cannot establish a chat with oneself")
	}

	pairKey := models.PairKey(a, b)
	repo := s.repomanager.ChatKeys(s.db)

	existing, err := repo.GetByPairKey(ctx, pairKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	userRepo := s.repomanager.Users(s.db)
	userA, userB := models.SortPair(a, b)

	first, err := userRepo.GetByID(ctx, userA)
	if err != nil {
		return nil, err
	}
	second, err := userRepo.GetByID(ctx, userB)
	if err != nil {
		return nil, err
	}

	pubA, err := cryptox.ParsePublicKeyPEM(first.PublicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("participant %s has no usable public key: %w", userA, err)
	}
	pubB, err := cryptox.ParsePublicKeyPEM(second.PublicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("participant %s has no usable public key: %w", userB, err)
	}

	key := cryptox.NewChatKey()
	defer common.WipeByteArray(key)

	ctA, err := cryptox.EncryptChatKey(key, pubA)
	if err != nil {
		return nil, fmt.Errorf("error wrapping chat key: %w", err)
	}
	ctB, err := cryptox.EncryptChatKey(key, pubB)
	if err != nil {
		return nil, fmt.Errorf("error wrapping chat key: %w", err)
	}

	pairing := &models.ChatKey{
		PairKey:     pairKey,
		UserA:       userA,
		UserB:       userB,
		CiphertextA: ctA,
		CiphertextB: ctB,
	}

	if err := repo.Create(ctx, pairing); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			// Lost the race; the winner's pairing is authoritative.
			return repo.GetByPairKey(ctx, pairKey)
		}
		return nil, err
	}
	return pairing, nil
}

// Resolve decrypts the caller's slot of the pairing with their private key.
// Returns common.ErrorNotFound when no pairing exists yet.
func (s *ChatService) Resolve(ctx context.Context, selfID, counterpartID string, priv *rsa.PrivateKey) ([]byte, error) {
	pairing, err := s.repomanager.ChatKeys(s.db).GetByPairKey(ctx, models.PairKey(selfID, counterpartID))
	if err != nil {
		return nil, err
	}

	slot := pairing.SlotFor(selfID)
	if slot == nil {
		return nil, common.ErrorNotFound
	}
	return cryptox.DecryptChatKey(slot, priv)
}

// Send persists an immutable envelope. The authenticated sender must equal
// senderID; the server stores only the two ciphertexts and never inspects
// plaintext.
func (s *ChatService) Send(ctx context.Context, senderID, receiverID string, senderCiphertext, receiverCiphertext []byte, attachmentKey string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot message oneself")
	}
	if len(senderCiphertext) == 0 || len(receiverCiphertext) == 0 {
		return nil, fmt.Errorf("both ciphertext slots are required")
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:                 uuid.New().String(),
		SenderID:           senderID,
		ReceiverID:         receiverID,
		SenderCiphertext:   senderCiphertext,
		ReceiverCiphertext: receiverCiphertext,
		AttachmentKey:      attachmentKey,
	}
	return s.repomanager.Messages(s.db).Create(ctx, msg)
}

// ListThread returns every envelope between the caller and the counterpart
// in ascending creation order.
func (s *ChatService) ListThread(ctx context.Context, selfID, counterpartID string) ([]*models.Message, error) {
	return s.repomanager.Messages(s.db).ListThread(ctx, selfID, counterpartID)
}

// AddFriend records an accepted relation from requester to recipient.
// A relation that already exists yields common.ErrorAlreadyExists.
func (s *ChatService) AddFriend(ctx context.Context, requesterID, recipientID string) (*models.Friendship, error) {
	if requesterID == recipientID {
		return nil, fmt.Errorf("cannot befriend oneself")
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	f := &models.Friendship{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.FriendshipAccepted,
	}
	if err := s.repomanager.Friendships(s.db).Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListContacts derives the contact set from the friendship graph: only
// users with an accepted relation to userID are visible, each as a public
// view including the published key. Reads go through the cache when one is
// configured.
func (s *ChatService) ListContacts(ctx context.Context, userID string) ([]models.PublicView, error) {
	ids, err := s.repomanager.Friendships(s.db).ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	userRepo := s.repomanager.Users(s.db)
	contacts := make([]models.PublicView, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		// Reciprocal friendship rows both resolve to the same counterpart;
		// contacts is a set.
		if seen[id] {
			continue
		}
		seen[id] = true

		if view, err := s.cache.Get(ctx, id); err == nil && view != nil {
			contacts = append(contacts, *view)
			continue
		}

		user, err := userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue // friend record outlived the user
			}
			return nil, err
		}
		view := user.Public()
		_ = s.cache.Set(ctx, view)
		contacts = append(contacts, view)
	}
	return contacts, nil
}
