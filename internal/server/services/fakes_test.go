package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sealedchat/sealedchat/internal/common"
	"github.com/sealedchat/sealedchat/internal/dbx"
	"github.com/sealedchat/sealedchat/internal/server/models"
	"github.com/sealedchat/sealedchat/internal/server/repositories/chatkeys"
	"github.com/sealedchat/sealedchat/internal/server/repositories/friendships"
	"github.com/sealedchat/sealedchat/internal/server/repositories/messages"
	"github.com/sealedchat/sealedchat/internal/server/repositories/users"
)

// In-memory repository fakes. They ignore the DBTX handle, so services can
// be exercised without a database.

type fakeManager struct {
	users       *memUsers
	chatKeys    *memChatKeys
	messages    *memMessages
	friendships *memFriendships
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:       &memUsers{byID: map[string]*models.User{}},
		chatKeys:    &memChatKeys{byPair: map[string]*models.ChatKey{}},
		messages:    &memMessages{},
		friendships: &memFriendships{},
	}
}

func (m *fakeManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeManager) ChatKeys(dbx.DBTX) chatkeys.Repository       { return m.chatKeys }
func (m *fakeManager) Messages(dbx.DBTX) messages.Repository       { return m.messages }
func (m *fakeManager) Friendships(dbx.DBTX) friendships.Repository { return m.friendships }
func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User

	// failAll, when set, makes every call return this error. Used to test
	// fail-closed behavior.
	failAll error
}

func (r *memUsers) clone(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	user.CreatedAt = time.Now()
	r.byID[user.ID] = r.clone(user)
	return user, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, u := range r.byID {
		if u.Email == email {
			return r.clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.clone(u), nil
}

func (r *memUsers) List(_ context.Context, offset, limit int, search string) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.User
	for _, u := range r.byID {
		if search == "" ||
			strings.Contains(strings.ToLower(u.Name), strings.ToLower(search)) ||
			strings.Contains(u.Email, strings.ToLower(search)) {
			all = append(all, r.clone(u))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *memUsers) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return common.ErrorNotFound
	}
	r.byID[user.ID] = r.clone(user)
	return nil
}

func (r *memUsers) SetSuspended(_ context.Context, id string, suspended bool, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsSuspended = suspended
	u.SuspensionReason = reason
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.IsAdmin {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type memChatKeys struct {
	mu     sync.Mutex
	byPair map[string]*models.ChatKey

	// createCalls counts inserts so tests can assert idempotence.
	createCalls int

	// hideOnRead makes that many GetByPairKey calls miss, so a row seeded
	// by the test looks like a concurrent insert landing between the
	// existence check and Create.
	hideOnRead int
}

func (r *memChatKeys) Create(_ context.Context, key *models.ChatKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if _, ok := r.byPair[key.PairKey]; ok {
		return common.ErrorAlreadyExists
	}
	c := *key
	r.byPair[key.PairKey] = &c
	return nil
}

func (r *memChatKeys) GetByPairKey(_ context.Context, pairKey string) (*models.ChatKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideOnRead > 0 {
		r.hideOnRead--
		return nil, common.ErrorNotFound
	}
	k, ok := r.byPair[pairKey]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *k
	return &c, nil
}

type memMessages struct {
	mu   sync.Mutex
	rows []*models.Message
	seq  int64
}

func (r *memMessages) Create(_ context.Context, msg *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.Seq = r.seq
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	c := *msg
	r.rows = append(r.rows, &c)
	return msg, nil
}

func (r *memMessages) ListThread(_ context.Context, a, b string) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Message
	for _, m := range r.rows {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			c := *m
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Seq < result[j].Seq
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

type memFriendships struct {
	mu   sync.Mutex
	rows []*models.Friendship
}

func (r *memFriendships) Create(_ context.Context, f *models.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.RequesterID == f.RequesterID && existing.RecipientID == f.RecipientID {
			return common.ErrorAlreadyExists
		}
	}
	c := *f
	r.rows = append(r.rows, &c)
	return nil
}

func (r *memFriendships) ListFriendIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, f := range r.rows {
		if f.Status != models.FriendshipAccepted {
			continue
		}
		switch userID {
		case f.RequesterID:
			ids = append(ids, f.RecipientID)
		case f.RecipientID:
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}
