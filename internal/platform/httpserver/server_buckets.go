package httpserver

import (
	"encoding/json"
	"net/http"

	buckethttp "kolekta/contexts/collections-core/bucket-engine/transport/http"
)

func (s *Server) handleClassifyBucket(w http.ResponseWriter, r *http.Request) {
	var req buckethttp.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBucketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	writeJSON(w, http.StatusOK, s.buckets.Handler.ClassifyHandler(r.Context(), req))
}

func writeBucketError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, buckethttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
