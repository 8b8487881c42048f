package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// chatKeyResponse carries only the requester's slot of the pairing; the
// counterpart's slot is never disclosed over the API.
type chatKeyResponse struct {
	PairKey      string `json:"pair_key"`
	EncryptedKey []byte `json:"encrypted_key"`
}

// chatKey establishes (POST) or fetches (GET) the pairing with the user in
// the path and returns the caller's encrypted copy of the chat key.
func (s *Server) chatKey(w http.ResponseWriter, r *http.Request) {
	self := requestUser(r)
	counterpart := mux.Vars(r)["userId"]

	pairing, err := s.chat.Establish(r.Context(), self.ID, counterpart)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slot := pairing.SlotFor(self.ID)
	if slot == nil {
		writeError(w, http.StatusForbidden, "not a participant of this chat")
		return
	}

	writeJSON(w, http.StatusOK, chatKeyResponse{
		PairKey:      pairing.PairKey,
		EncryptedKey: slot,
	})
}

type sendRequest struct {
	ReceiverID         string `json:"receiver_id"`
	SenderCiphertext   []byte `json:"sender_ciphertext"`
	ReceiverCiphertext []byte `json:"receiver_ciphertext"`
	AttachmentKey      string `json:"attachment_key,omitempty"`
}

func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	self := requestUser(r)

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ReceiverID == "" {
		writeError(w, http.StatusBadRequest, "receiver_id is required")
		return
	}

	msg, err := s.chat.Send(r.Context(), self.ID, req.ReceiverID,
		req.SenderCiphertext, req.ReceiverCiphertext, req.AttachmentKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        msg.ID,
		"timestamp": msg.CreatedAt,
	})
}

// envelopeView is one thread entry as seen by the requester: only the slot
// addressed to them is included.
type envelopeView struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	Ciphertext    []byte    `json:"ciphertext"`
	AttachmentKey string    `json:"attachment_key,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func (s *Server) thread(w http.ResponseWriter, r *http.Request) {
	self := requestUser(r)
	counterpart := mux.Vars(r)["userId"]

	msgs, err := s.chat.ListThread(r.Context(), self.ID, counterpart)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]envelopeView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, envelopeView{
			ID:            m.ID,
			SenderID:      m.SenderID,
			ReceiverID:    m.ReceiverID,
			Ciphertext:    m.SlotFor(self.ID),
			AttachmentKey: m.AttachmentKey,
			Timestamp:     m.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": views,
		"count":    len(views),
	})
}

func (s *Server) addFriend(w http.ResponseWriter, r *http.Request) {
	self := requestUser(r)
	recipient := mux.Vars(r)["userId"]

	f, err := s.chat.AddFriend(r.Context(), self.ID, recipient)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     f.ID,
		"status": string(f.Status),
	})
}

func (s *Server) contacts(w http.ResponseWriter, r *http.Request) {
	self := requestUser(r)

	views, err := s.chat.ListContacts(r.Context(), self.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contacts": views,
		"count":    len(views),
	})
}
