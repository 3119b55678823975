package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

func TestCompileWhere(t *testing.T) {
	tests := []struct {
		name     string
		expr     access.Expr
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name: "nil compiles to no condition",
		},
		{
			name:    "nothing compiles to FALSE",
			expr:    access.Nothing{},
			wantSQL: "FALSE",
		},
		{
			name:     "eq",
			expr:     access.Eq{Col: "student.parent_id", Val: "p1"},
			wantSQL:  "student.parent_id = ?",
			wantArgs: []interface{}{"p1"},
		},
		{
			name:     "ilike wraps the keyword in wildcards",
			expr:     access.ILike{Col: "teacher.name", Val: "ali"},
			wantSQL:  "teacher.name ILIKE ?",
			wantArgs: []interface{}{"%ali%"},
		},
		{
			name:    "is null",
			expr:    access.IsNull{Col: "event.class_id"},
			wantSQL: "event.class_id IS NULL",
		},
		{
			name:     "subquery passes through verbatim",
			expr:     access.Sub{SQL: "EXISTS (SELECT 1 FROM lesson l WHERE l.teacher_id = ?)", Args: []interface{}{"t1"}},
			wantSQL:  "EXISTS (SELECT 1 FROM lesson l WHERE l.teacher_id = ?)",
			wantArgs: []interface{}{"t1"},
		},
		{
			name: "and keeps arg order",
			expr: access.And{
				access.ILike{Col: "student.name", Val: "ali"},
				access.Eq{Col: "student.parent_id", Val: "p1"},
			},
			wantSQL:  "(student.name ILIKE ?) AND (student.parent_id = ?)",
			wantArgs: []interface{}{"%ali%", "p1"},
		},
		{
			name: "or of null check and membership",
			expr: access.Or{
				access.IsNull{Col: "event.class_id"},
				access.Sub{SQL: "EXISTS (SELECT 1 FROM student s WHERE s.id = ?)", Args: []interface{}{"s1"}},
			},
			wantSQL:  "(event.class_id IS NULL) OR (EXISTS (SELECT 1 FROM student s WHERE s.id = ?))",
			wantArgs: []interface{}{"s1"},
		},
		{
			name: "nested junctions parenthesize",
			expr: access.And{
				access.Eq{Col: "a", Val: 1},
				access.Or{
					access.Eq{Col: "b", Val: 2},
					access.Eq{Col: "c", Val: 3},
				},
			},
			wantSQL:  "(a = ?) AND ((b = ?) OR (c = ?))",
			wantArgs: []interface{}{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := compileWhere(tt.expr)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestTrapDBErr(t *testing.T) {
	t.Run("no rows is not found", func(t *testing.T) {
		err := trapDBErr(sql.ErrNoRows, "getting teacher")
		assert.ErrorIs(t, err, school.ErrNotFound)
	})

	t.Run("lost connection asks for shutdown", func(t *testing.T) {
		for _, cause := range []error{sql.ErrConnDone, driver.ErrBadConn} {
			err := trapDBErr(cause, "listing students")
			assert.True(t, core.IsShutdown(err), "%v", cause)
		}
	})

	t.Run("anything else is wrapped", func(t *testing.T) {
		cause := errors.New("boom")
		err := trapDBErr(cause, "listing students")
		assert.False(t, core.IsShutdown(err))
		assert.ErrorIs(t, err, cause)
	})
}
