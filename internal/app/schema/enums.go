package schema

import "strings"

// RoleType defines the users.role values
type RoleType string

const (
	RoleStudent    RoleType = "student"
	RoleTeacher    RoleType = "teacher"
	RoleAdmin      RoleType = "admin"
	RoleGovernment RoleType = "government"
)

// AttendanceStatus defines the attendance.status values
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// ScholarshipStatus defines the scholarships.status values
type ScholarshipStatus string

const (
	ScholarshipPending  ScholarshipStatus = "pending"
	ScholarshipApproved ScholarshipStatus = "approved"
	ScholarshipRejected ScholarshipStatus = "rejected"
)

// ComplaintStatus defines the complaints.status values
type ComplaintStatus string

const (
	ComplaintOpen     ComplaintStatus = "open"
	ComplaintResolved ComplaintStatus = "resolved"
)

// enumColumn renders a MySQL ENUM type, e.g. ENUM('open','resolved')
func enumColumn[T ~string](values ...T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + string(v) + "'"
	}
	return "ENUM(" + strings.Join(quoted, ",") + ")"
}
