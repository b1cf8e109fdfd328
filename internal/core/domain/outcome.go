package domain

import "github.com/google/uuid"

type LoginStatus string

const (
	LoginNeedsEnrollment   LoginStatus = "needs_enrollment"
	LoginAuthenticated     LoginStatus = "authenticated"
	LoginInvalidCredential LoginStatus = "invalid_credential"
)

type LoginOutcome struct {
	Status        LoginStatus `json:"outcome"`
	Person        Person      `json:"person"`
	Token         string      `json:"token,omitempty"`
	HasVotedToday bool        `json:"has_voted"`
}

type BallotStatus string

const BallotAccepted BallotStatus = "accepted"

type BallotOutcome struct {
	Status   BallotStatus `json:"outcome"`
	BallotID uuid.UUID    `json:"ballot_id"`
	Day      DayKey       `json:"day"`
	Records  int          `json:"records"`
}
