package friendships

import (
	"context"
	"errors"
	"testing"

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

func TestCreate_DuplicateDirectionMapsToAlreadyExists(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO friendships").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	err := repo.Create(context.Background(), &models.Friendship{
		ID: "f1", RequesterID: "a", RecipientID: "b",
		Status: models.FriendshipAccepted,
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

// The pair is unique per direction, so reciprocal rows can exist for the
// same two users; the query collapses them to one id.
func TestListFriendIDs_SelectsDistinct(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT DISTINCT CASE").
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("b").AddRow("c"))

	ids, err := repo.ListFriendIDs(context.Background(), "a")
	if err != nil {
		t.Fatalf("ListFriendIDs error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "c" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
