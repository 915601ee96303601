package domain

type ToolStatus string

const (
	ToolStatusAvailable   ToolStatus = "AVAILABLE"
	ToolStatusUnavailable ToolStatus = "UNAVAILABLE"
	ToolStatusArchived    ToolStatus = "ARCHIVED"
)

// Tool carries the per-tool scheduling policy the reservation engine reads.
// The listing itself (name, photos, pricing) lives in the catalog and is
// never mutated here.
type Tool struct {
	ID                int32      `json:"id"`
	OwnerID           int32      `json:"owner_id"`
	Status            ToolStatus `json:"status"`
	AdvanceNoticeDays int32      `json:"advance_notice_days"`
	MaxLoanDays       int32      `json:"max_loan_days"`
	CreatedOn         string     `json:"created_on"`
}
