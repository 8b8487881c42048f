// Package services contains server-side business logic: identity
// provisioning, authentication and authorization, chat key exchange,
// message envelopes and attachment presigning.
package services

import (
	"context"
	"crypto/rsa"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sealedchat/sealedchat/internal/common"
	"github.com/sealedchat/sealedchat/internal/cryptox"
	"github.com/sealedchat/sealedchat/internal/dbx"
	"github.com/sealedchat/sealedchat/internal/server/auth"
	"github.com/sealedchat/sealedchat/internal/server/config"
	"github.com/sealedchat/sealedchat/internal/server/models"
	"github.com/sealedchat/sealedchat/internal/server/repositories/repomanager"
	"github.com/sealedchat/sealedchat/internal/server/repositories/userscache"
)

// UserService provides identity provisioning and authentication:
//   - Register: create identities with fresh key material
//   - Login: verify credentials and mint a session token
//   - Authorize / AuthorizeAdmin: resolve tokens back to live identities
//   - admin mutations: suspend, unsuspend, update, delete
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *userscache.Cache
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
// cache may be nil when Redis is not configured.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cache *userscache.Cache, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		cache:       cache,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.AccessTokenValidityDuration,
	}
}

// NormalizeEmail lower-cases and trims an email address. All storage and
// lookups go through this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register provisions a new identity: a password verifier, a fresh RSA-2048
// keypair with the public half published as PEM and the private half wrapped
// under a key derived from the password. A duplicate normalized email yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	verifier, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	keypair, err := cryptox.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("error generating keypair: %w", err)
	}

	publicPEM, err := cryptox.EncodePublicKeyPEM(&keypair.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("error encoding public key: %w", err)
	}

	passphrase := []byte(password)
	defer common.WipeByteArray(passphrase)

	wrapped, err := cryptox.WrapPrivateKey(keypair, passphrase)
	if err != nil {
		return nil, fmt.Errorf("error wrapping private key: %w", err)
	}

	user := &models.User{
		ID:                uuid.New().String(),
		Name:              name,
		Email:             NormalizeEmail(email),
		Verifier:          verifier,
		PublicKeyPEM:      publicPEM,
		WrappedPrivateKey: *wrapped,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password are indistinguishable to the caller; unexpected storage errors
// fail closed as ErrorInternal, never as success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.Verifier) {
		return nil, common.ErrorInvalidCredentials
	}
	return user, nil
}

// Login authenticates and mints a session token for the identity.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.IssueToken(user)
}

// IssueToken mints a session token for an already-authenticated identity.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.Email, user.Name, user.IsAdmin, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authorize verifies a session token and resolves it to a live identity.
// The suspension check runs against storage on every call, so suspending an
// account takes effect on the next request even for tokens that are still
// cryptographically valid.
func (s *UserService) Authorize(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if user.IsSuspended {
		return nil, &common.SuspendedError{Reason: user.SuspensionReason}
	}
	return user, nil
}

// AuthorizeAdmin is Authorize plus an admin-flag gate.
func (s *UserService) AuthorizeAdmin(ctx context.Context, token string) (*models.User, error) {
	user, err := s.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, common.ErrorAdminRequired
	}
	return user, nil
}

// UnwrapPrivateKey re-derives the wrapping key from the stored salt and the
// supplied password and recovers the user's private key. Stateless and
// side-effect free; any failure is common.ErrorWrongPassphrase.
func (s *UserService) UnwrapPrivateKey(user *models.User, password string) (*rsa.PrivateKey, error) {
	return cryptox.UnwrapPrivateKey(&user.WrappedPrivateKey, []byte(password))
}

// GetByID fetches a user record by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// PublicUser returns the public view for a user id, read through the cache
// when one is configured.
func (s *UserService) PublicUser(ctx context.Context, id string) (*models.PublicView, error) {
	if view, err := s.cache.Get(ctx, id); err == nil && view != nil {
		return view, nil
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.Public()
	_ = s.cache.Set(ctx, view)
	return &view, nil
}

// List returns a page of public user views plus the total count, optionally
// filtered by a name/email substring.
func (s *UserService) List(ctx context.Context, page, limit int, search string) ([]models.PublicView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := s.repomanager.Users(s.db).List(ctx, (page-1)*limit, limit, search)
	if err != nil {
		return nil, 0, err
	}

	views := make([]models.PublicView, 0, len(users))
	for _, u := range users {
		views = append(views, u.Public())
	}
	return views, total, nil
}

// AdminUpdate carries the optional field updates an admin may apply.
type AdminUpdate struct {
	Name             *string
	Email            *string
	IsAdmin          *bool
	IsSuspended      *bool
	SuspensionReason *string
}

// Update applies an admin update to a user inside a transaction so the
// read-modify-write is atomic per document.
func (s *UserService) Update(ctx context.Context, id string, upd AdminUpdate) (*models.User, error) {
	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			user.Name = *upd.Name
		}
		if upd.Email != nil {
			user.Email = NormalizeEmail(*upd.Email)
		}
		if upd.IsAdmin != nil {
			user.IsAdmin = *upd.IsAdmin
		}
		if upd.IsSuspended != nil {
			user.IsSuspended = *upd.IsSuspended
		}
		if upd.SuspensionReason != nil {
			user.SuspensionReason = *upd.SuspensionReason
		}

		if err := repo.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, id)
	return updated, nil
}

// Suspend marks a user suspended with the given reason.
func (s *UserService) Suspend(ctx context.Context, id, reason string) error {
	if err := s.repomanager.Users(s.db).SetSuspended(ctx, id, true, reason); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}

// Unsuspend clears a user's suspension.
func (s *UserService) Unsuspend(ctx context.Context, id string) error {
	if err := s.repomanager.Users(s.db).SetSuspended(ctx, id, false, ""); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}

// Delete removes a non-admin user. Admin accounts are refused at the
// storage level and surface as ErrorNotFound.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}
