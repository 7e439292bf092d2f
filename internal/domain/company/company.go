package company

import (
	"time"

	"github.com/google/uuid"
)

// Company is a client of the accounting firm.
type Company struct {
	ID   uuid.UUID
	Name string
	CNPJ string // stored normalized, digits only

	// ObligationRefs is the set of obligations assigned to this company.
	// Entries are heterogeneous: an obligation id, or a display name where
	// the assignment predates id-based linking.
	ObligationRefs []string

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
