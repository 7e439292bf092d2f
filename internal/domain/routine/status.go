package routine

// Status represents where a routine sits in its review lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"   // created, waiting for the client's proof document
	StatusInReview  Status = "IN_REVIEW" // proof uploaded, waiting for admin review
	StatusCompleted Status = "COMPLETED" // admin approved the proof
	StatusOverdue   Status = "OVERDUE"   // deadline passed with no proof uploaded
)
