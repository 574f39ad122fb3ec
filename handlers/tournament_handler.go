package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/versusite/middleware"
	"github.com/Dosada05/versusite/services"
)

type TournamentHandler struct {
	sessionService services.SessionService
}

func NewTournamentHandler(ss services.SessionService) *TournamentHandler {
	return &TournamentHandler{
		sessionService: ss,
	}
}

type resolveMatchRequest struct {
	WinnerID string `json:"winner_id"`
}

// StartTournament строит сетку и возвращает токен записи для её ведущего.
func (h *TournamentHandler) StartTournament(w http.ResponseWriter, r *http.Request) {
	var input services.StartTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	started, err := h.sessionService.Start(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/tournaments/%s", started.Tournament.ID))
	response := jsonResponse{"tournament": started.Tournament, "token": started.Token}
	if err := writeJSON(w, http.StatusCreated, response, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.sessionService.Get(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetNextMatch returns {"match": null, "completed": true} once a champion exists.
func (h *TournamentHandler) GetNextMatch(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.sessionService.Get(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	match, err := h.sessionService.NextMatch(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"match":       match,
		"round":       tournament.CurrentRoundIndex + 1,
		"completed":   tournament.Completed,
		"total_items": len(tournament.Items),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.sessionService.Rankings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ResolveMatch(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req resolveMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.WinnerID) == "" {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	tournament, err := h.sessionService.ResolveMatch(r.Context(), services.ResolveMatchInput{
		Token:        middleware.TokenFromContext(r.Context()),
		TournamentID: tournamentID,
		MatchID:      matchID,
		WinnerID:     req.WinnerID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
