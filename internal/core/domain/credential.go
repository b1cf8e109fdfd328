package domain

import "time"

type Credential struct {
	Person    Person    `json:"person"`
	Secret    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
