package handlers

import (
	"net/http"

	"github.com/Dosada05/fixture-engine/brackets"
	"github.com/Dosada05/fixture-engine/services"
)

type FixtureHandler struct {
	fixtureService   services.FixtureService
	bracketService   services.BracketService
	matchService     services.MatchService
	standingsService services.StandingsService
}

func NewFixtureHandler(
	fs services.FixtureService,
	bs services.BracketService,
	ms services.MatchService,
	ss services.StandingsService,
) *FixtureHandler {
	return &FixtureHandler{
		fixtureService:   fs,
		bracketService:   bs,
		matchService:     ms,
		standingsService: ss,
	}
}

// CreateFixture godoc
// @Summary Create a fixture
// @Tags fixtures
// @Description Creates a knockout or round-robin fixture. Omitted settings keep their defaults.
// @Accept json
// @Produce json
// @Param body body services.CreateFixtureInput true "Fixture"
// @Success 201 {object} map[string]interface{} "fixture"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Name already taken"
// @Router /fixtures [post]
func (h *FixtureHandler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	var input services.CreateFixtureInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixture, err := h.fixtureService.CreateFixture(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"fixture": fixture}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFixture godoc
// @Summary Get a fixture with participants, matches and standings
// @Tags fixtures
// @Produce json
// @Param fixtureID path int true "Fixture ID"
// @Success 200 {object} map[string]interface{} "fixture"
// @Failure 404 {object} map[string]string "Fixture not found"
// @Router /fixtures/{fixtureID} [get]
func (h *FixtureHandler) GetFixture(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixture, err := h.fixtureService.GetFullFixtureData(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fixture": fixture}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateBracket godoc
// @Summary Generate the bracket or schedule of a fixture
// @Tags fixtures
// @Description Runs once per fixture. Warnings list same-team pairings that could not be avoided.
// @Produce json
// @Param fixtureID path int true "Fixture ID"
// @Success 201 {object} services.GenerationResult
// @Failure 400 {object} map[string]string "Not enough participants or bad settings"
// @Failure 404 {object} map[string]string "Fixture not found"
// @Failure 409 {object} map[string]string "Already generated"
// @Failure 422 {object} map[string]string "Strict same-team avoidance cannot be met"
// @Router /fixtures/{fixtureID}/generate [post]
func (h *FixtureHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.GenerateAndSaveBracket(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary List the matches of a fixture
// @Tags matches
// @Produce json
// @Param fixtureID path int true "Fixture ID"
// @Param round query int false "Round filter"
// @Param status query string false "Status filter"
// @Success 200 {object} map[string]interface{} "matches"
// @Failure 400 {object} map[string]string "Bad filter"
// @Failure 404 {object} map[string]string "Fixture not found"
// @Router /fixtures/{fixtureID}/matches [get]
func (h *FixtureHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := queryInt(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var status *brackets.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := brackets.MatchStatus(raw)
		status = &s
	}

	matches, err := h.matchService.ListByFixture(r.Context(), fixtureID, round, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandings godoc
// @Summary Current standings of a round-robin fixture
// @Tags fixtures
// @Produce json
// @Param fixtureID path int true "Fixture ID"
// @Success 200 {object} map[string]interface{} "standings"
// @Failure 400 {object} map[string]string "Not a round-robin fixture"
// @Failure 404 {object} map[string]string "Fixture not found"
// @Router /fixtures/{fixtureID}/standings [get]
func (h *FixtureHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.Compute(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
