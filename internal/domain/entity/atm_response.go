package entity

// AtmResponse is what the switch answered for a submitted message
type AtmResponse struct {
	TraceNumber  string `json:"traceNumber"`
	ResponseCode string `json:"responseCode"`
	Balance      string `json:"balance,omitempty"`
	RRN          string `json:"rrn,omitempty"`
	// Error is set when the switch answered but the backend could not finish its own work
	Error string `json:"err,omitempty"`
}

// Approved reports whether the switch approved the request
func (r AtmResponse) Approved() bool {
	switch r.ResponseCode {
	case "00", "000":
		return true
	default:
		return false
	}
}
