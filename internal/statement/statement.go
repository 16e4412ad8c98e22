package statement

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/norma43/internal/norma43"
)

var ErrNotFound = errors.New("statement not found")

// Statement is a persisted account block of an imported N43 file.
type Statement struct {
	ID        uuid.UUID
	Account   norma43.Account
	CreatedAt time.Time
}
