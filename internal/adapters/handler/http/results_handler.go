package http

import (
	"net/http"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type ResultsHandler struct {
	tally  ports.TallyService
	roster *domain.Roster
	days   ports.DayClock
}

func NewResultsHandler(tally ports.TallyService, roster *domain.Roster, days ports.DayClock) *ResultsHandler {
	return &ResultsHandler{
		tally:  tally,
		roster: roster,
		days:   days,
	}
}

type rosterResponse struct {
	Day    domain.DayKey   `json:"day"`
	People []domain.Person `json:"people"`
	Emojis []domain.Emoji  `json:"emojis"`
}

func (h *ResultsHandler) Roster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rosterResponse{
		Day:    h.days.CurrentDayKey(),
		People: h.roster.People(),
		Emojis: h.roster.Emojis(),
	})
}

// Results discloses today's tally only. Past days are read with cmd/tally.
func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	disclosure, err := h.tally.Disclose(r.Context(), h.days.CurrentDayKey())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, disclosure)
}
