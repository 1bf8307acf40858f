package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/skusdev/profile/internal/domain"
	"github.com/skusdev/profile/internal/roster"
	"github.com/skusdev/profile/internal/service"
)

// MemberHandler handles member CRUD, the paginated view, and the CSV export.
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// HandleList returns the full collection in insertion order.
func (h *MemberHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.members.Store().All())
}

// HandleGet returns one member by id.
func (h *MemberHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := h.members.Store().Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleCreate adds a member from a JSON payload. The id is assigned by the
// store, never taken from the request.
func (h *MemberHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.MemberInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	m, err := h.members.AddMember(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleUpdate merges a partial update over an existing member.
func (h *MemberHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch domain.MemberPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	m, err := h.members.EditMember(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("update member", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDelete removes one member.
func (h *MemberHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.members.DeleteMember(r.Context(), id, nil); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "member not found")
			return
		}
		slog.Error("delete member", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBulkDelete removes every member named in the payload. Unknown ids are
// ignored; the response reports how many records were actually removed.
func (h *MemberHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDs []int64 `json:"ids"`
	}
	if err := readJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	removed := h.members.BulkDelete(r.Context(), payload.IDs)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// HandleAddTag assigns a tag to a member.
func (h *MemberHandler) HandleAddTag(w http.ResponseWriter, r *http.Request) {
	h.handleTag(w, r, h.members.AssignTag)
}

// HandleRemoveTag removes a tag from a member.
func (h *MemberHandler) HandleRemoveTag(w http.ResponseWriter, r *http.Request) {
	h.handleTag(w, r, h.members.RemoveTag)
}

func (h *MemberHandler) handleTag(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id int64, tag string) (domain.Member, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Tag string `json:"tag"`
	}
	if err := readJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	m, err := op(r.Context(), id, payload.Tag)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("tag member", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleView returns one page of the filtered, sorted collection.
func (h *MemberHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	params := viewParams(r)
	view := roster.BuildView(h.members.Store().All(), params)
	writeJSON(w, http.StatusOK, view)
}

// HandleExport streams the current filtered view as CSV, in sort order, one
// row per record.
func (h *MemberHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	params := viewParams(r)
	filtered := roster.FilterSorted(h.members.Store().All(), params)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)
	if err := service.ExportCSV(w, filtered); err != nil {
		slog.Error("export members csv", "error", err)
	}
}

func viewParams(r *http.Request) roster.ViewParams {
	q := r.URL.Query()
	page := 1
	if v := q.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			page = parsed
		}
	}
	return roster.ViewParams{
		Search:   q.Get("search"),
		District: q.Get("district"),
		Gender:   q.Get("gender"),
		Tag:      q.Get("tag"),
		SortKey:  roster.SortKey(q.Get("sort")),
		SortDir:  roster.SortDir(q.Get("dir")),
		Page:     page,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return 0, false
	}
	return id, true
}
