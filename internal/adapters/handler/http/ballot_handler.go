package http

import (
	"net/http"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type BallotHandler struct {
	ledger ports.LedgerService
	days   ports.DayClock
}

func NewBallotHandler(ledger ports.LedgerService, days ports.DayClock) *BallotHandler {
	return &BallotHandler{
		ledger: ledger,
		days:   days,
	}
}

type ballotRequest struct {
	Choices map[string]string `json:"choices"`
}

type eligibilityResponse struct {
	Person   domain.Person `json:"person"`
	Day      domain.DayKey `json:"day"`
	HasVoted bool          `json:"has_voted"`
}

func (h *BallotHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	person, ok := personFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrInvalidCredential)
		return
	}

	voted, err := h.ledger.HasVotedToday(r.Context(), person)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, eligibilityResponse{
		Person:   person,
		Day:      h.days.CurrentDayKey(),
		HasVoted: voted,
	})
}

func (h *BallotHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	voter, ok := personFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrInvalidCredential)
		return
	}

	var req ballotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.ledger.SubmitChoices(r.Context(), voter, req.Choices)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, outcome)
}
