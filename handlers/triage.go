package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/models"
)

type TriageStore interface {
	Add(ctx context.Context, postID string) error
	Remove(ctx context.Context, postID string) error
	List(ctx context.Context) ([]string, error)
}

type TriageHandler struct {
	stores map[enums.TriageSet]TriageStore
}

func NewTriageHandler(stores map[enums.TriageSet]TriageStore) *TriageHandler {
	return &TriageHandler{stores}
}

func (h *TriageHandler) Add(set enums.TriageSet) Handler {
	store := h.store(set)
	return func(w http.ResponseWriter, r *http.Request) Result {
		id, res, ok := decodePostID(r)
		if !ok {
			return res
		}

		if err := store.Add(r.Context(), id); err != nil {
			return InternalError(err, "add "+string(set)+" post: ")
		}

		return Success()
	}
}

func (h *TriageHandler) Remove(set enums.TriageSet) Handler {
	store := h.store(set)
	return func(w http.ResponseWriter, r *http.Request) Result {
		id, res, ok := decodePostID(r)
		if !ok {
			return res
		}

		if err := store.Remove(r.Context(), id); err != nil {
			return InternalError(err, "remove "+string(set)+" post: ")
		}

		return Success()
	}
}

func (h *TriageHandler) List(set enums.TriageSet) Handler {
	store := h.store(set)
	return func(w http.ResponseWriter, r *http.Request) Result {
		ids, err := store.List(r.Context())
		if err != nil {
			return InternalError(err, "list "+string(set)+" posts: ")
		}

		return Ok(ids)
	}
}

func (h *TriageHandler) store(set enums.TriageSet) TriageStore {
	store, ok := h.stores[set]
	if !ok {
		panic("no store for triage set " + string(set))
	}
	return store
}

func decodePostID(r *http.Request) (string, Result, bool) {
	var req models.PostIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", BadRequest("Invalid request."), false
	}

	id := strings.TrimPrefix(strings.TrimSpace(req.ID), "t3_")
	if id == "" {
		return "", Failure("Missing id"), false
	}

	return id, Result{}, true
}
