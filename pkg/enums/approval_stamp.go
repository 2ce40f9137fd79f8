package enums

import "fmt"

// ApprovalStamp maps to the approval_stamp enum in Postgres.
type ApprovalStamp string

const (
	ApprovalStampNone     ApprovalStamp = "none"
	ApprovalStampOriginal ApprovalStamp = "original"
	ApprovalStampCIT      ApprovalStamp = "cit"
	ApprovalStampBoth     ApprovalStamp = "both"
)

var validApprovalStamps = []ApprovalStamp{
	ApprovalStampNone,
	ApprovalStampOriginal,
	ApprovalStampCIT,
	ApprovalStampBoth,
}

// String implements fmt.Stringer.
func (a ApprovalStamp) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical approval_stamp enum.
func (a ApprovalStamp) IsValid() bool {
	for _, candidate := range validApprovalStamps {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseApprovalStamp converts raw input into ApprovalStamp.
func ParseApprovalStamp(value string) (ApprovalStamp, error) {
	for _, candidate := range validApprovalStamps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid approval stamp %q", value)
}

// IncludesOriginal reports whether the "ORIGINAL" overlay should render.
func (a ApprovalStamp) IncludesOriginal() bool {
	return a == ApprovalStampOriginal || a == ApprovalStampBoth
}

// IncludesCIT reports whether the company overlay should render.
func (a ApprovalStamp) IncludesCIT() bool {
	return a == ApprovalStampCIT || a == ApprovalStampBoth
}

// StampFromFlags collapses the two independent checkbox flags into the enum.
func StampFromFlags(original, cit bool) ApprovalStamp {
	switch {
	case original && cit:
		return ApprovalStampBoth
	case original:
		return ApprovalStampOriginal
	case cit:
		return ApprovalStampCIT
	default:
		return ApprovalStampNone
	}
}
