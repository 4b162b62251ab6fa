package diag

// Severity defines the importance of a finding.
type Severity uint8

const (
	// SevInfo is for informational findings (auto-corrected symbols).
	SevInfo Severity = iota
	// SevWarning is for findings that do not reject a candidate.
	SevWarning
	// SevError is for findings that reject a candidate.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
