package access

// Target carries the ownership-path fields of the record being mutated. For
// update/delete it describes the existing row; for create, the proposed
// payload. The service layer resolves transitive paths (an exam's owning
// teacher via its lesson) before calling Authorize, so the gate itself stays
// a pure function.
type Target struct {
	// TeacherID is the owning teacher reached through the record's ownership
	// path: lesson.teacher_id directly for lessons, via the lesson for exams,
	// assignments, results and attendance. Empty when the chain is broken.
	TeacherID string
}

// op sets; the allow-list below points at these
var (
	allOps = map[Operation]bool{OpCreate: true, OpUpdate: true, OpDelete: true}
)

// mutationAllowList fixes which record types each non-admin role may mutate
// at all. Checked before any ownership evaluation. Students and parents have
// no entries: they never mutate anything.
var mutationAllowList = map[Role]map[RecordType]map[Operation]bool{
	RoleTeacher: {
		RecordLesson:     allOps,
		RecordExam:       allOps,
		RecordAssignment: allOps,
		RecordResult:     allOps,
		RecordAttendance: allOps,
	},
}

// Authorize decides whether the actor may perform op on a record of type rt.
// A nil return means allow. Admin is the super-role: always allowed, no
// ownership check. For everyone else the allow-list is consulted first, then
// ownership: the target's owning teacher must be the caller.
//
// Create is the exception to the ownership check: there is no pre-existing
// row to own, so the service enforces ownership by forcing the owning foreign
// key to the caller's ID instead of trusting the payload (see
// school.Service).
func Authorize(actor Actor, rt RecordType, op Operation, target Target) error {
	if !actor.Role.Known() {
		return ErrUnknownRole
	}
	if actor.Role == RoleAdmin {
		return nil
	}
	if actor.UserID == "" {
		return ErrMissingIdentity
	}

	if !mutationAllowList[actor.Role][rt][op] {
		return ErrPermissionDenied
	}

	if op == OpCreate {
		return nil
	}
	if target.TeacherID == "" || target.TeacherID != actor.UserID {
		return ErrNotOwner
	}
	return nil
}
