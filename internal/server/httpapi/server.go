// Package httpapi exposes the REST surface of the server: registration and
// token endpoints, the user directory, chat key exchange, message envelopes
// and attachment presigning. All plaintext stays on the clients; the API
// only ever carries ciphertext.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sealedchat/sealedchat/internal/logging"
	"github.com/sealedchat/sealedchat/internal/server/models"
	"github.com/sealedchat/sealedchat/internal/server/services"
)

// UserAPI is the slice of the user service the HTTP layer depends on.
type UserAPI interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authorize(ctx context.Context, token string) (*models.User, error)
	AuthorizeAdmin(ctx context.Context, token string) (*models.User, error)
	PublicUser(ctx context.Context, id string) (*models.PublicView, error)
	List(ctx context.Context, page, limit int, search string) ([]models.PublicView, int64, error)
	Update(ctx context.Context, id string, upd services.AdminUpdate) (*models.User, error)
	Suspend(ctx context.Context, id, reason string) error
	Unsuspend(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ChatAPI is the slice of the chat service the HTTP layer depends on.
type ChatAPI interface {
	Establish(ctx context.Context, a, b string) (*models.ChatKey, error)
	Send(ctx context.Context, senderID, receiverID string, senderCiphertext, receiverCiphertext []byte, attachmentKey string) (*models.Message, error)
	ListThread(ctx context.Context, selfID, counterpartID string) ([]*models.Message, error)
	AddFriend(ctx context.Context, requesterID, recipientID string) (*models.Friendship, error)
	ListContacts(ctx context.Context, userID string) ([]models.PublicView, error)
}

// AttachmentAPI brokers presigned URLs for encrypted attachment blobs.
type AttachmentAPI interface {
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

type Server struct {
	address     string
	logger      logging.Logger
	users       UserAPI
	chat        ChatAPI
	attachments AttachmentAPI
}

func NewServer(addr string, l logging.Logger, us UserAPI, cs ChatAPI, as AttachmentAPI) *Server {
	return &Server{
		address:     addr,
		logger:      l.With("module", "http_server"),
		users:       us,
		chat:        cs,
		attachments: as,
	}
}

// Router builds the full route table. Exported so tests can drive the API
// through httptest without binding a socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/token", s.token).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminMiddleware)

	admin.HandleFunc("/user/{userId}/suspend", s.suspendUser).Methods(http.MethodPost)
	admin.HandleFunc("/user/{userId}/unsuspend", s.unsuspendUser).Methods(http.MethodPost)
	admin.HandleFunc("/user/{userId}", s.updateUser).Methods(http.MethodPatch)
	admin.HandleFunc("/user/{userId}", s.deleteUser).Methods(http.MethodDelete)

	api := r.PathPrefix("/").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/user/me", s.me).Methods(http.MethodGet)
	api.HandleFunc("/user/all", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/user/{userId}", s.getUser).Methods(http.MethodGet)

	api.HandleFunc("/chat/contacts", s.contacts).Methods(http.MethodGet)
	api.HandleFunc("/chat/friend/{userId}", s.addFriend).Methods(http.MethodPost)
	api.HandleFunc("/chat/key/{userId}", s.chatKey).Methods(http.MethodPost, http.MethodGet)
	api.HandleFunc("/chat/send", s.send).Methods(http.MethodPost)
	api.HandleFunc("/chat/thread/{userId}", s.thread).Methods(http.MethodGet)

	api.HandleFunc("/attachment/upload-url", s.attachmentPutURL).Methods(http.MethodPost)
	api.HandleFunc("/attachment/download-url", s.attachmentGetURL).Methods(http.MethodGet)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
