package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sealedchat/sealedchat/internal/common"
	"github.com/sealedchat/sealedchat/internal/server/models"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func sampleUser() *models.User {
	return &models.User{
		ID:           "u1",
		Name:         "Alice",
		Email:        "alice@example.com",
		Verifier:     "salt:hash",
		PublicKeyPEM: []byte("-----BEGIN PUBLIC KEY-----"),
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err := repo.Create(context.Background(), sampleUser())
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreate_ReturnsTimestamp(t *testing.T) {
	repo, mock := newMock(t)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	user, err := repo.Create(context.Background(), sampleUser())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !user.CreatedAt.Equal(created) {
		t.Fatalf("timestamp not assigned: %v", user.CreatedAt)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_ScansWrappedKeyTriple(t *testing.T) {
	repo, mock := newMock(t)

	cols := []string{"id", "name", "email", "verifier", "public_key_pem",
		"wrapped_private_key", "wrapped_key_salt", "wrapped_key_iv",
		"is_admin", "is_suspended", "suspension_reason", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"u1", "Alice", "alice@example.com", "salt:hash", []byte("pem"),
			[]byte("ct"), []byte("ks"), []byte("iv"),
			false, false, "", time.Now()))

	user, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	w := user.WrappedPrivateKey
	if string(w.Ciphertext) != "ct" || string(w.Salt) != "ks" || string(w.IV) != "iv" {
		t.Fatalf("wrapped key triple not scanned: %+v", w)
	}
}

func TestDelete_AdminOrUnknownYieldsNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("admin-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "admin-id")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestSetSuspended(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE users SET is_suspended").
		WithArgs("u1", true, "abuse").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetSuspended(context.Background(), "u1", true, "abuse"); err != nil {
		t.Fatalf("SetSuspended error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
