package httpapi

import "net/http"

func (s *Server) attachmentPutURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.attachments.GetPresignedPutUrl(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"key": key,
		"url": url,
	})
}

func (s *Server) attachmentGetURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := s.attachments.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
