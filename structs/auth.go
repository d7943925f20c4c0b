package structs

import (
	"time"

	"github.com/google/uuid"
)

// StaffClaims are the verified claims of an already-authenticated staff
// token. Token issuance lives in the auth collaborator; this backend only
// verifies and reads them.
type StaffClaims struct {
	Sub   uuid.UUID `json:"sub"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Iat   time.Time `json:"iat"`
	Exp   time.Time `json:"exp"`
	Jti   uuid.UUID `json:"jti"`
}
