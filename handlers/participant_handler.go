package handlers

import (
	"net/http"

	"github.com/Dosada05/fixture-engine/services"
)

type ParticipantHandler struct {
	fixtureService services.FixtureService
}

func NewParticipantHandler(fs services.FixtureService) *ParticipantHandler {
	return &ParticipantHandler{fixtureService: fs}
}

// AddParticipant godoc
// @Summary Register a participant in a fixture
// @Tags participants
// @Description Doubles fixtures may name an already registered partner, who is then not seeded separately.
// @Accept json
// @Produce json
// @Param fixtureID path int true "Fixture ID"
// @Param body body services.AddParticipantInput true "Participant"
// @Success 201 {object} map[string]interface{} "participant"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Fixture not found"
// @Failure 409 {object} map[string]string "Duplicate name or registration closed"
// @Router /fixtures/{fixtureID}/participants [post]
func (h *ParticipantHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.fixtureService.AddParticipant(r.Context(), fixtureID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
