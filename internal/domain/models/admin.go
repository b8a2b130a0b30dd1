package models

import (
	"github.com/google/uuid"
)

type Admin struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Email    string    `db:"email" json:"email"`
	Password []byte    `db:"password" json:"-"`
}
