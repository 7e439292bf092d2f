package obligation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Obligation represents a recurring regulatory duty owed by client companies,
// e.g. a monthly tax filing. Each obligation carries a table mapping calendar
// months to the day the filing is due.
type Obligation struct {
	ID         uuid.UUID
	Name       string
	Department string // optional classification, e.g. "Fiscal", "Pessoal"
	MonthlyDue DueTable
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DueTable maps a month number ("1".."12", no leading zero) to a due-day
// specifier. The table may be sparse; a missing month means the obligation
// does not apply in that month.
//
// Specifiers come from imported spreadsheets and are messy: a day number,
// a day number with an ordinal suffix ("20ª"), or a "Não há" marker. Some
// sources emit plain JSON numbers instead of strings, so unmarshalling
// coerces both forms to string.
type DueTable map[string]string

// UnmarshalJSON accepts both string and numeric values per month.
func (t *DueTable) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("error decoding due table: %w", err)
	}
	out := make(DueTable, len(raw))
	for month, val := range raw {
		var s string
		if err := json.Unmarshal(val, &s); err == nil {
			out[month] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(val, &n); err != nil {
			return fmt.Errorf("due table month %q: value is neither string nor number", month)
		}
		out[month] = n.String()
	}
	*t = out
	return nil
}

// DueFor returns the raw specifier for a 1-based month number.
func (t DueTable) DueFor(month int) (string, bool) {
	spec, ok := t[fmt.Sprintf("%d", month)]
	return spec, ok
}
