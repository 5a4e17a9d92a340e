package enums

import "fmt"

// AuditAction is the kind of corrective action an audit entry records.
type AuditAction string

const (
	AuditActionModify AuditAction = "modify"
	AuditActionDelete AuditAction = "delete"
)

var validAuditActions = []AuditAction{
	AuditActionModify,
	AuditActionDelete,
}

// IsValid reports whether the value matches the canonical audit action enum.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts the raw string to AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
