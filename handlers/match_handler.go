package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/fixture-engine/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

func matchIDFromURL(r *http.Request) (string, error) {
	id := chi.URLParam(r, "matchID")
	if id == "" {
		return "", errors.New("missing matchID in URL path")
	}
	return id, nil
}

// GetMatch godoc
// @Summary Get a match
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]interface{} "match"
// @Failure 404 {object} map[string]string "Match not found"
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitResult godoc
// @Summary Record the result of a match
// @Tags matches
// @Description Both scores are required. A level knockout score needs a penalty shootout.
// @Description The winner moves into the next match, semi-final losers into the third-place match.
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Param body body services.ResolveMatchInput true "Scores"
// @Success 200 {object} services.ResolveResult
// @Failure 400 {object} map[string]string "Missing or invalid scores"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Next match already started or taken"
// @Router /matches/{matchID}/result [post]
func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ResolveMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.ResolveMatch(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
