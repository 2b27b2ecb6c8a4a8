package diag

// Severity separates the two classes of diagnostics the compiler produces:
// warnings, which never stop the pipeline, and errors, which gate code
// generation and force a nonzero exit.
type Severity uint8

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
