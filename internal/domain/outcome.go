package domain

// CommandOutcome is the normalized result of one external command.
// ExitCode is nil when the process never exited on its own (launch failure,
// timeout, cancellation); ErrorMessage is set only when Success is false.
type CommandOutcome struct {
	Success      bool   `json:"success"`
	ExitCode     *int   `json:"exit_code,omitempty"`
	Stdout       string `json:"stdout"`
	Stderr       string `json:"stderr"`
	ErrorMessage string `json:"error,omitempty"`
}

// FailureDetail returns the text shown to a client when the command failed.
func (o CommandOutcome) FailureDetail() string {
	if o.Stderr != "" {
		return o.Stderr
	}
	return o.ErrorMessage
}
