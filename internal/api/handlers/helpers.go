package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"route-profit-service/internal/api/dto"
	"route-profit-service/internal/domain"
	"strconv"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps domain errors to status codes; anything else is a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *domain.ValidationError
	var rerr *domain.ResolutionError

	switch {
	case errors.As(err, &verr):
		res := dto.ValidationErrorResponse{
			Error:    "validation failed",
			Problems: make([]dto.FieldProblemResponse, 0, len(verr.Problems)),
		}
		for _, p := range verr.Problems {
			res.Problems = append(res.Problems, dto.FieldProblemResponse{Field: p.Field, Message: p.Message})
		}
		writeJSON(w, r, http.StatusBadRequest, res)

	case errors.As(err, &rerr):
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]string{
			"error": "could not resolve city",
			"city":  rerr.City,
		})

	case errors.Is(err, domain.ErrHistoryEntryNotFound):
		writeError(w, r, http.StatusNotFound, "history entry not found")

	case errors.Is(err, context.Canceled):
		log.Printf("%s cancelled: %v", op, err)

	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeFile renders into memory first so a render error can still become a 500.
func writeFile(w http.ResponseWriter, r *http.Request, op, contentType, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("%s write failed: %v", op, err)
	}
}
