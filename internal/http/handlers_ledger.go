package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/catalog"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

type addRequest struct {
	Date        string   `json:"date"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Note        string   `json:"note"`
}

type listRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type editRequest struct {
	ID *int64 `json:"id"`
	core.Patch
}

type deleteRequest struct {
	ID *int64 `json:"id"`
}

type summarizeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Category  string `json:"category"`
}

func kindLabel(kind core.Kind) string {
	if kind == core.Credit {
		return "Credit"
	}
	return "Expense"
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	return true
}

func (s *Server) handleAdd(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Amount == nil {
			writeError(w, http.StatusUnprocessableEntity, "missing amount")
			return
		}

		rec := core.Record{
			Date:        req.Date,
			Amount:      *req.Amount,
			Category:    req.Category,
			Subcategory: req.Subcategory,
			Note:        req.Note,
		}

		id, err := s.service.Add(r.Context(), kind, rec)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to add record",
				"ledger", kind,
				"operation", "insert",
				"error", err)
			writeError(w, errorCode(err), err.Error())
			return
		}

		writeOK(w, statusResponse{ID: id})
	}
}

func (s *Server) handleList(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listRequest
		if !decodeBody(w, r, &req) {
			return
		}

		records, err := s.service.List(r.Context(), kind, req.StartDate, req.EndDate)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to list records",
				"ledger", kind,
				"operation", "list",
				"error", err)
			writeError(w, errorCode(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, records)
	}
}

func (s *Server) handleEdit(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.ID == nil {
			writeError(w, http.StatusUnprocessableEntity, "missing id")
			return
		}

		if err := s.service.Edit(r.Context(), kind, *req.ID, req.Patch); err != nil {
			if errorCode(err) == http.StatusInternalServerError {
				slog.ErrorContext(r.Context(), "Failed to edit record",
					"ledger", kind,
					"operation", "edit",
					"record_id", *req.ID,
					"error", err)
			}
			writeError(w, errorCode(err), editFailureMessage(kind, *req.ID, err))
			return
		}

		writeOK(w, statusResponse{Message: fmt.Sprintf("%s %d updated successfully", kindLabel(kind), *req.ID)})
	}
}

func editFailureMessage(kind core.Kind, id int64, err error) string {
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Sprintf("%s %d not found", kindLabel(kind), id)
	}
	return err.Error()
}

func (s *Server) handleDeleteByID(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.ID == nil {
			writeError(w, http.StatusUnprocessableEntity, "missing id")
			return
		}

		if err := s.service.DeleteByID(r.Context(), kind, *req.ID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", kindLabel(kind), *req.ID))
				return
			}
			slog.ErrorContext(r.Context(), "Failed to delete record",
				"ledger", kind,
				"operation", "delete",
				"record_id", *req.ID,
				"error", err)
			writeError(w, errorCode(err), err.Error())
			return
		}

		writeOK(w, statusResponse{Message: fmt.Sprintf("%s %d deleted successfully", kindLabel(kind), *req.ID)})
	}
}

func (s *Server) handleRemoveByCriteria(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Amount == nil {
			writeError(w, http.StatusUnprocessableEntity, "missing amount")
			return
		}

		rec := core.Record{
			Date:        req.Date,
			Amount:      *req.Amount,
			Category:    req.Category,
			Subcategory: req.Subcategory,
			Note:        req.Note,
		}

		count, err := s.service.RemoveByCriteria(r.Context(), kind, rec)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to remove records",
				"ledger", kind,
				"operation", "delete",
				"error", err)
			writeError(w, errorCode(err), err.Error())
			return
		}
		if count == 0 {
			writeError(w, http.StatusNotFound, "no matching records")
			return
		}

		writeOK(w, statusResponse{
			Count:   &count,
			Message: fmt.Sprintf("deleted %d matching record(s)", count),
		})
	}
}

func (s *Server) handleSummarize(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		summaries, err := s.service.Summarize(r.Context(), kind, req.StartDate, req.EndDate, req.Category)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to summarize records",
				"ledger", kind,
				"operation", "summarize",
				"error", err)
			writeError(w, errorCode(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, summaries)
	}
}

// handleCategories serves the catalog document verbatim. It is read fresh on
// every call so edits to the file show up without a restart; a read failure
// is a catalog fault and never affects the ledger paths.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	data, err := catalog.Read(s.categoriesPath)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read category catalog",
			"path", s.categoriesPath,
			"error", err)
		writeError(w, http.StatusInternalServerError, "category catalog unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, statusResponse{})
}
