package portfolio

// VisibilityRequest is a visibility crossing reported by the sections script.
type VisibilityRequest struct {
	Page    string  `json:"page"`
	Section string  `json:"section"`
	Ratio   float64 `json:"ratio"`
}

// SelectRequest is an explicit navigation to a section.
type SelectRequest struct {
	Page    string `json:"page"`
	Section string `json:"section"`
}

// LeaveRequest is sent when a page unloads.
type LeaveRequest struct {
	Page string `json:"page"`
}

// SectionState is the answer to every section API call.
type SectionState struct {
	Active     string `json:"active"`
	Changed    bool   `json:"changed"`
	Suppressed bool   `json:"suppressed"`
}

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	From    string
	Message string
	IP      string
}
