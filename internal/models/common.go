package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Party identifies which side of a session an actor is on.
type Party string

const (
	PartyMentee Party = "mentee"
	PartyMentor Party = "mentor"
)

// Valid reports whether the party value is one of the known sides.
func (p Party) Valid() bool {
	return p == PartyMentee || p == PartyMentor
}
