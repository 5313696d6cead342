package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /healthz. Payloads and query parameters are rejected.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if len(r.URL.RawQuery) > 0 || r.ContentLength > 0 {
		WriteNoContent(w, http.StatusBadRequest)
		return
	}

	err := h.db.Ping()
	if err != nil {
		WriteNoContent(w, http.StatusServiceUnavailable)
		return
	}

	WriteNoContent(w, http.StatusOK)
}
