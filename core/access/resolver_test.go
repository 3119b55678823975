package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAdmin(t *testing.T) {
	admin := Actor{Role: RoleAdmin, UserID: "admin1"}

	t.Run("no filters is unrestricted", func(t *testing.T) {
		expr, err := Resolve(admin, RecordStudent, nil)
		require.NoError(t, err)
		assert.Nil(t, expr)
	})

	t.Run("filters pass through untouched", func(t *testing.T) {
		f := ILike{Col: "student.name", Val: "ali"}
		expr, err := Resolve(admin, RecordStudent, f)
		require.NoError(t, err)
		assert.Equal(t, f, expr)
	})

	t.Run("admin needs no user ID", func(t *testing.T) {
		expr, err := Resolve(Actor{Role: RoleAdmin}, RecordResult, nil)
		require.NoError(t, err)
		assert.Nil(t, expr)
	})
}

func TestResolveFailClosed(t *testing.T) {
	t.Run("unknown role", func(t *testing.T) {
		for _, role := range []Role{"", "superadmin", "Teacher"} {
			expr, err := Resolve(Actor{Role: role, UserID: "u1"}, RecordStudent, nil)
			assert.ErrorIs(t, err, ErrUnknownRole, "role %q", role)
			assert.True(t, MatchesNothing(expr), "role %q", role)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		for _, role := range []Role{RoleTeacher, RoleStudent, RoleParent} {
			expr, err := Resolve(Actor{Role: role}, RecordLesson, nil)
			assert.ErrorIs(t, err, ErrMissingIdentity, "role %q", role)
			assert.True(t, MatchesNothing(expr), "role %q", role)
		}
	})
}

// Every non-admin (role, record type) pair must resolve to a predicate that
// mentions the caller's ID. A pair resolving to an unrestricted or ID-free
// predicate would leak rows across role boundaries.
func TestResolveCoversAllRecordTypes(t *testing.T) {
	records := []RecordType{
		RecordTeacher, RecordStudent, RecordParent, RecordSubject,
		RecordClass, RecordLesson, RecordExam, RecordAssignment,
		RecordResult, RecordAttendance, RecordEvent, RecordAnnouncement,
	}
	for _, role := range []Role{RoleTeacher, RoleStudent, RoleParent} {
		for _, rt := range records {
			expr, err := Resolve(Actor{Role: role, UserID: "u1"}, rt, nil)
			require.NoError(t, err, "%s/%s", role, rt)
			require.NotNil(t, expr, "%s/%s", role, rt)
			assert.False(t, MatchesNothing(expr), "%s/%s", role, rt)
			assert.True(t, mentionsValue(expr, "u1"), "%s/%s: predicate does not carry the caller ID", role, rt)
		}
	}
}

func TestResolveIdentityClauses(t *testing.T) {
	t.Run("student sees only themselves", func(t *testing.T) {
		expr, err := Resolve(Actor{Role: RoleStudent, UserID: "s1"}, RecordStudent, nil)
		require.NoError(t, err)
		assert.Equal(t, Eq{Col: "student.id", Val: "s1"}, expr)
	})

	t.Run("parent sees only their children", func(t *testing.T) {
		expr, err := Resolve(Actor{Role: RoleParent, UserID: "p1"}, RecordStudent, nil)
		require.NoError(t, err)
		assert.Equal(t, Eq{Col: "student.parent_id", Val: "p1"}, expr)
	})

	t.Run("teacher owns lessons directly", func(t *testing.T) {
		expr, err := Resolve(Actor{Role: RoleTeacher, UserID: "t1"}, RecordLesson, nil)
		require.NoError(t, err)
		assert.Equal(t, Eq{Col: "lesson.teacher_id", Val: "t1"}, expr)
	})

	t.Run("student sees own results", func(t *testing.T) {
		expr, err := Resolve(Actor{Role: RoleStudent, UserID: "s1"}, RecordResult, nil)
		require.NoError(t, err)
		assert.Equal(t, Eq{Col: "result.student_id", Val: "s1"}, expr)
	})

	t.Run("parent sees children's results", func(t *testing.T) {
		expr, err := Resolve(Actor{Role: RoleParent, UserID: "p1"}, RecordResult, nil)
		require.NoError(t, err)
		sub, ok := expr.(Sub)
		require.True(t, ok)
		assert.Equal(t, []interface{}{"p1"}, sub.Args)
		assert.Contains(t, sub.SQL, "s.parent_id = ?")
	})
}

// Resolving the same inputs twice yields structurally identical predicates.
func TestResolveIdempotent(t *testing.T) {
	f := Eq{Col: "result.student_id", Val: "s9"}
	for _, role := range []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent} {
		actor := Actor{Role: role, UserID: "u1"}
		first, err := Resolve(actor, RecordResult, f)
		require.NoError(t, err, "%s", role)
		second, err := Resolve(actor, RecordResult, f)
		require.NoError(t, err, "%s", role)
		assert.Equal(t, first, second, "%s", role)
	}
}

// User filters must AND onto the mandatory clause; they can never replace it.
func TestResolveUserFiltersNarrowOnly(t *testing.T) {
	f := Eq{Col: "student.class_id", Val: 3}
	expr, err := Resolve(Actor{Role: RoleParent, UserID: "p1"}, RecordStudent, f)
	require.NoError(t, err)

	and, ok := expr.(And)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, f, and[0])
	assert.Equal(t, Eq{Col: "student.parent_id", Val: "p1"}, and[1])
}

// Events and announcements add the global-row escape hatch: NULL class_id
// rows stay visible alongside the membership clause.
func TestResolveGlobalAgendaRows(t *testing.T) {
	for _, role := range []Role{RoleTeacher, RoleStudent, RoleParent} {
		for _, rt := range []RecordType{RecordEvent, RecordAnnouncement} {
			expr, err := Resolve(Actor{Role: role, UserID: "u1"}, rt, nil)
			require.NoError(t, err, "%s/%s", role, rt)

			or, ok := expr.(Or)
			require.True(t, ok, "%s/%s: expected OR(is-null, membership)", role, rt)
			require.Len(t, or, 2)
			assert.Equal(t, IsNull{Col: string(rt) + ".class_id"}, or[0], "%s/%s", role, rt)
		}
	}
}

// mentionsValue walks the tree looking for val among Eq values and Sub args.
func mentionsValue(e Expr, val interface{}) bool {
	switch n := e.(type) {
	case And:
		for _, c := range n {
			if mentionsValue(c, val) {
				return true
			}
		}
	case Or:
		for _, c := range n {
			if mentionsValue(c, val) {
				return true
			}
		}
	case Eq:
		return n.Val == val
	case Sub:
		for _, a := range n.Args {
			if a == val {
				return true
			}
		}
	}
	return false
}
