package http

// Callable envelope used by Firebase callable functions. Clients that already
// speak the callable protocol can hit this endpoint unchanged.

type CallRequest struct {
	Data TriggerBuildData `json:"data"`
}

type TriggerBuildData struct {
	ProjectID string `json:"projectId"`
}

type CallResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CallResponse struct {
	Result *CallResult `json:"result,omitempty"`
	Error  *CallError  `json:"error,omitempty"`
}

// CallError carries the canonical status (e.g. "PERMISSION_DENIED") and the
// user-visible message.
type CallError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *CallError) Error() string {
	return e.Status + ": " + e.Message
}
