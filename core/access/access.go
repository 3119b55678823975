// Package access implements the role-scoped read filters and the mutation
// gate shared by every record type in the app. Read queries go through
// Resolve, which combines the caller's filters with the mandatory clause the
// role carries for that record type. Mutations go through Authorize, which
// checks the fixed per-role allow-list and then record ownership.
package access

// Role is the session role claim issued by the identity provider. The app
// trusts it verbatim; it is never read from request bodies or query strings.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

// RecordType is the closed set of tables the dashboard exposes.
type RecordType string

const (
	RecordTeacher      RecordType = "teacher"
	RecordStudent      RecordType = "student"
	RecordParent       RecordType = "parent"
	RecordSubject      RecordType = "subject"
	RecordClass        RecordType = "class"
	RecordLesson       RecordType = "lesson"
	RecordExam         RecordType = "exam"
	RecordAssignment   RecordType = "assignment"
	RecordResult       RecordType = "result"
	RecordAttendance   RecordType = "attendance"
	RecordEvent        RecordType = "event"
	RecordAnnouncement RecordType = "announcement"
)

// Operation is a mutation kind checked by the gate.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Actor is the authenticated caller, built once per request from the session
// claims and passed down explicitly. It is never mutated.
type Actor struct {
	Role   Role
	UserID string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
