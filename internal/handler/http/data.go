package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/utils"
	"github.com/MKhiriev/go-data-vault/models"
)

func (h *Handler) getSchema(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	schema, err := h.services.DataService.GetSchema(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, schema, http.StatusOK)
}

func (h *Handler) updateSchema(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var schema models.Schema
	if err := json.NewDecoder(r.Body).Decode(&schema); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.DataService.UpdateSchema(r.Context(), session, schema); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var record models.DataRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	stored, err := h.services.DataService.AddRecord(r.Context(), session, record)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, stored, http.StatusCreated)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := recordIDFromURL(r)
	if err != nil {
		log.Err(err).Msg("invalid record id")
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	var record models.DataRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.DataService.UpdateRecord(r.Context(), session, id, record); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := recordIDFromURL(r)
	if err != nil {
		log.Err(err).Msg("invalid record id")
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	if err := h.services.DataService.DeleteRecord(r.Context(), session, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getData(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	// absent or malformed paging params fall back to the first default page
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.services.DataService.GetData(r.Context(), session, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) getMetadata(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	meta, err := h.services.DataService.GetMetadata(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, meta, http.StatusOK)
}

func (h *Handler) importRows(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var rows []models.DataRecord
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	imported, err := h.services.DataService.ImportRows(r.Context(), session, rows)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, struct {
		Imported int `json:"imported"`
	}{Imported: imported}, http.StatusOK)
}

func recordIDFromURL(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
