package school

import (
	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
)

// Query filters: one struct per record type, holding exactly the allow-listed
// query-string keys for that type. Anything else in the query string never
// reaches these structs, so it can neither widen nor narrow a result set.
// Expr() renders the filter as a predicate for the store; identity-based
// scoping is NOT done here, that is the resolver's job.

type TeacherFilter struct {
	Search  string `query:"search"`
	ClassID int    `query:"classId"`
}

func (f *TeacherFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f TeacherFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.Search != "" {
		exprs = append(exprs, access.ILike{Col: "teacher.name", Val: f.Search})
	}
	if f.ClassID != 0 {
		exprs = append(exprs, access.Sub{
			SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.teacher_id = teacher.id AND l.class_id = ?)`,
			Args: []interface{}{f.ClassID},
		})
	}
	return access.Conj(exprs...)
}

type StudentFilter struct {
	Search    string `query:"search"`
	TeacherID string `query:"teacherId"`
}

func (f *StudentFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f StudentFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.Search != "" {
		exprs = append(exprs, access.ILike{Col: "student.name", Val: f.Search})
	}
	if f.TeacherID != "" {
		// students of classes the given teacher teaches in
		exprs = append(exprs, access.Sub{
			SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.class_id = student.class_id AND l.teacher_id = ?)`,
			Args: []interface{}{f.TeacherID},
		})
	}
	return access.Conj(exprs...)
}

type ParentFilter struct {
	Search string `query:"search"`
}

func (f *ParentFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f ParentFilter) Expr() access.Expr {
	if f.Search == "" {
		return nil
	}
	return access.ILike{Col: "parent.name", Val: f.Search}
}

type SubjectFilter struct {
	Search string `query:"search"`
}

func (f *SubjectFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f SubjectFilter) Expr() access.Expr {
	if f.Search == "" {
		return nil
	}
	return access.ILike{Col: "subject.name", Val: f.Search}
}

type ClassFilter struct {
	Search       string `query:"search"`
	SupervisorID string `query:"supervisorId"`
}

func (f *ClassFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f ClassFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.Search != "" {
		exprs = append(exprs, access.ILike{Col: `"class".name`, Val: f.Search})
	}
	if f.SupervisorID != "" {
		exprs = append(exprs, access.Eq{Col: `"class".supervisor_id`, Val: f.SupervisorID})
	}
	return access.Conj(exprs...)
}

type LessonFilter struct {
	Search    string `query:"search"`
	ClassID   int    `query:"classId"`
	TeacherID string `query:"teacherId"`
}

func (f *LessonFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f LessonFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.Search != "" {
		exprs = append(exprs, access.Or{
			access.Sub{
				SQL:  `EXISTS (SELECT 1 FROM subject sub WHERE sub.id = lesson.subject_id AND sub.name ILIKE ?)`,
				Args: []interface{}{"%" + f.Search + "%"},
			},
			access.Sub{
				SQL:  `EXISTS (SELECT 1 FROM teacher t WHERE t.id = lesson.teacher_id AND t.name ILIKE ?)`,
				Args: []interface{}{"%" + f.Search + "%"},
			},
		})
	}
	if f.ClassID != 0 {
		exprs = append(exprs, access.Eq{Col: "lesson.class_id", Val: f.ClassID})
	}
	if f.TeacherID != "" {
		exprs = append(exprs, access.Eq{Col: "lesson.teacher_id", Val: f.TeacherID})
	}
	return access.Conj(exprs...)
}

type ExamFilter struct {
	Search    string `query:"search"`
	ClassID   int    `query:"classId"`
	TeacherID string `query:"teacherId"`
}

func (f *ExamFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f ExamFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.Search != "" {
		exprs = append(exprs, access.Sub{
			SQL: `EXISTS (SELECT 1 FROM lesson l JOIN subject sub ON sub.id = l.subject_id
				WHERE l.id = exam.lesson_id AND sub.name ILIKE ?)`,
			Args: []interface{}{"%" + f.Search + "%"},
		})
	}
	if f.ClassID != 0 {
		exprs = append(exprs, access.Sub{
			SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = exam.lesson_id AND l.class_id = ?)`,
			Args: []interface{}{f.ClassID},
		})
	}
	if f.TeacherID != "" {
		exprs = append(exprs, access.Sub{
			SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = exam.lesson_id AND l.teacher_id = ?)`,
			Args: []interface{}{f.TeacherID},
		})
	}
	return access.Conj(exprs...)
}

type AssignmentFilter struct {
	Search    string `query:"search"`
	ClassID   int    `query:"classId"`
	TeacherID string `query:"teacherId"`
}

func (f *AssignmentFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f AssignmentFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.Search != "" {
		exprs = append(exprs, access.Sub{
			SQL: `EXISTS (SELECT 1 FROM lesson l JOIN subject sub ON sub.id = l.subject_id
				WHERE l.id = assignment.lesson_id AND sub.name ILIKE ?)`,
			Args: []interface{}{"%" + f.Search + "%"},
		})
	}
	if f.ClassID != 0 {
		exprs = append(exprs, access.Sub{
			SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = assignment.lesson_id AND l.class_id = ?)`,
			Args: []interface{}{f.ClassID},
		})
	}
	if f.TeacherID != "" {
		exprs = append(exprs, access.Sub{
			SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = assignment.lesson_id AND l.teacher_id = ?)`,
			Args: []interface{}{f.TeacherID},
		})
	}
	return access.Conj(exprs...)
}

type ResultFilter struct {
	Search    string `query:"search"`
	StudentID string `query:"studentId"`
}

func (f *ResultFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f ResultFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.Search != "" {
		exprs = append(exprs, access.Or{
			access.Sub{
				SQL:  `EXISTS (SELECT 1 FROM exam e WHERE e.id = result.exam_id AND e.title ILIKE ?)`,
				Args: []interface{}{"%" + f.Search + "%"},
			},
			access.Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.id = result.student_id AND s.name ILIKE ?)`,
				Args: []interface{}{"%" + f.Search + "%"},
			},
		})
	}
	if f.StudentID != "" {
		exprs = append(exprs, access.Eq{Col: "result.student_id", Val: f.StudentID})
	}
	return access.Conj(exprs...)
}

type AttendanceFilter struct {
	StudentID string `query:"studentId"`
	ClassID   int    `query:"classId"`
}

func (f *AttendanceFilter) Clean() {}

func (f AttendanceFilter) Expr() access.Expr {
	var exprs []access.Expr
	if f.StudentID != "" {
		exprs = append(exprs, access.Eq{Col: "attendance.student_id", Val: f.StudentID})
	}
	if f.ClassID != 0 {
		exprs = append(exprs, access.Sub{
			SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = attendance.lesson_id AND l.class_id = ?)`,
			Args: []interface{}{f.ClassID},
		})
	}
	return access.Conj(exprs...)
}

type EventFilter struct {
	Search string `query:"search"`
}

func (f *EventFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f EventFilter) Expr() access.Expr {
	if f.Search == "" {
		return nil
	}
	return access.ILike{Col: "event.title", Val: f.Search}
}

type AnnouncementFilter struct {
	Search string `query:"search"`
}

func (f *AnnouncementFilter) Clean() { f.Search = core.CleanString(f.Search) }

func (f AnnouncementFilter) Expr() access.Expr {
	if f.Search == "" {
		return nil
	}
	return access.ILike{Col: "announcement.title", Val: f.Search}
}
