package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blackhacks/scrim-system/reports"
	"github.com/blackhacks/scrim-system/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

func (h *StandingsHandler) DayStandings(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	standings, err := h.standingsService.DayStandings(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
}

func (h *StandingsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	name, dayNumber, rows, err := h.standingsService.ExportRows(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, rows); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", reports.Filename(name, dayNumber, ".csv")))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *StandingsHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	name, dayNumber, rows, err := h.standingsService.ExportRows(r.Context(), actor,
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "dayID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteXLSX(&buf, name, dayNumber, rows); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", reports.Filename(name, dayNumber, ".xlsx")))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
