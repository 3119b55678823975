package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeAdmin(t *testing.T) {
	admin := Actor{Role: RoleAdmin, UserID: "admin1"}

	// admin passes everywhere, ownership never consulted
	for _, rt := range []RecordType{RecordTeacher, RecordParent, RecordLesson, RecordResult, RecordAnnouncement} {
		for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
			assert.NoError(t, Authorize(admin, rt, op, Target{TeacherID: "someone-else"}), "%s/%s", rt, op)
		}
	}
}

func TestAuthorizeFailClosed(t *testing.T) {
	t.Run("unknown role", func(t *testing.T) {
		err := Authorize(Actor{Role: "moderator", UserID: "u1"}, RecordLesson, OpUpdate, Target{TeacherID: "u1"})
		assert.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("missing identity", func(t *testing.T) {
		err := Authorize(Actor{Role: RoleTeacher}, RecordLesson, OpCreate, Target{})
		assert.ErrorIs(t, err, ErrMissingIdentity)
	})
}

func TestAuthorizeAllowList(t *testing.T) {
	teacher := Actor{Role: RoleTeacher, UserID: "t1"}
	owned := Target{TeacherID: "t1"}

	t.Run("teacher may mutate teaching records", func(t *testing.T) {
		for _, rt := range []RecordType{RecordLesson, RecordExam, RecordAssignment, RecordResult, RecordAttendance} {
			for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
				assert.NoError(t, Authorize(teacher, rt, op, owned), "%s/%s", rt, op)
			}
		}
	})

	t.Run("teacher may not touch people or agenda records", func(t *testing.T) {
		for _, rt := range []RecordType{
			RecordTeacher, RecordStudent, RecordParent, RecordSubject,
			RecordClass, RecordEvent, RecordAnnouncement,
		} {
			for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
				// ownership is irrelevant: the allow-list rejects first
				err := Authorize(teacher, rt, op, owned)
				assert.ErrorIs(t, err, ErrPermissionDenied, "%s/%s", rt, op)
			}
		}
	})

	t.Run("students and parents never mutate", func(t *testing.T) {
		records := []RecordType{
			RecordTeacher, RecordStudent, RecordParent, RecordSubject,
			RecordClass, RecordLesson, RecordExam, RecordAssignment,
			RecordResult, RecordAttendance, RecordEvent, RecordAnnouncement,
		}
		for _, actor := range []Actor{{Role: RoleStudent, UserID: "s1"}, {Role: RoleParent, UserID: "p1"}} {
			for _, rt := range records {
				for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
					err := Authorize(actor, rt, op, Target{TeacherID: actor.UserID})
					assert.ErrorIs(t, err, ErrPermissionDenied, "%s %s/%s", actor.Role, rt, op)
				}
			}
		}
	})
}

func TestAuthorizeOwnership(t *testing.T) {
	teacher := Actor{Role: RoleTeacher, UserID: "t1"}

	t.Run("update and delete require ownership", func(t *testing.T) {
		for _, op := range []Operation{OpUpdate, OpDelete} {
			assert.NoError(t, Authorize(teacher, RecordExam, op, Target{TeacherID: "t1"}))
			assert.ErrorIs(t, Authorize(teacher, RecordExam, op, Target{TeacherID: "t2"}), ErrNotOwner)
		}
	})

	t.Run("broken ownership chain is denied", func(t *testing.T) {
		err := Authorize(teacher, RecordResult, OpDelete, Target{})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("create skips the ownership check", func(t *testing.T) {
		// the service forces the owning FK to the caller instead
		assert.NoError(t, Authorize(teacher, RecordLesson, OpCreate, Target{}))
	})
}
