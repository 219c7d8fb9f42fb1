package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blackhacks/scrim-system/services"
)

const maxUploadBytes = 10 << 20 // 10 MiB, согласован с сервисом

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) AddMatch(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	match, err := h.matchService.AddMatch(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) RemoveMatch(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	err = h.matchService.RemoveMatch(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadScreenshot принимает multipart-форму с полем "screenshot".
func (h *MatchHandler) UploadScreenshot(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("screenshot")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.AttachScreenshot(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "matchID"),
		image, header.Header.Get("Content-Type"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) RemoveScreenshot(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Key string `json:"key"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RemoveScreenshot(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "matchID"), input.Key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	match, err := h.matchService.Analyze(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) Reset(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	match, err := h.matchService.Reset(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) AddPenalty(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.PenaltyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	penalty, err := h.matchService.AddPenalty(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"penalty": penalty}, nil)
}

func (h *MatchHandler) RemovePenalty(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	err = h.matchService.RemovePenalty(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "penaltyID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
