package model

// LogRecord is a circulation log entry as stored in the logs table. Date is
// kept as the source text so records round-trip unchanged.
type LogRecord struct {
	ID             string     `json:"id,omitempty"`
	EventID        string     `json:"eventId,omitempty"`
	UserBarcode    string     `json:"userBarcode,omitempty"`
	Items          []LogItem  `json:"items,omitempty"`
	Object         string     `json:"object,omitempty"`
	Action         string     `json:"action,omitempty"`
	Date           string     `json:"date,omitempty"`
	ServicePointID string     `json:"servicePointId,omitempty"`
	Source         string     `json:"source,omitempty"`
	Description    string     `json:"description,omitempty"`
	LinkToIDs      *LinkToIDs `json:"linkToIds,omitempty"`
}

// LogItem identifies an item touched by a circulation action.
type LogItem struct {
	ItemBarcode string `json:"itemBarcode,omitempty"`
	ItemID      string `json:"itemId,omitempty"`
	InstanceID  string `json:"instanceId,omitempty"`
	HoldingID   string `json:"holdingId,omitempty"`
	LoanID      string `json:"loanId,omitempty"`
}

// LinkToIDs references the records a log entry links to.
type LinkToIDs struct {
	UserID         string `json:"userId,omitempty"`
	RequestID      string `json:"requestId,omitempty"`
	FeeFineID      string `json:"feeFineId,omitempty"`
	TemplateID     string `json:"templateId,omitempty"`
	NoticePolicyID string `json:"noticePolicyId,omitempty"`
}
