package access

// clauseFunc builds the mandatory clause a role carries for one record type,
// scoped to the given caller ID.
type clauseFunc func(userID string) Expr

// mandatoryClauses is the fixed ownership-path table. Admin carries no entry:
// its predicate is always the identity. Every other (role, record type) pair
// resolves here; a missing pair fails closed.
//
// The class-membership rule threads through most entries: a teacher is scoped
// to the classes they teach a lesson in, a student to their own class, a
// parent to their children's classes.
var mandatoryClauses = map[Role]map[RecordType]clauseFunc{
	RoleTeacher: {
		// colleagues teaching in a class the caller teaches in
		RecordTeacher: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l WHERE l.teacher_id = teacher.id
					AND l.class_id IN (SELECT class_id FROM lesson WHERE teacher_id = ?))`,
				Args: []interface{}{id},
			}
		},
		RecordStudent: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.class_id = student.class_id AND l.teacher_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordParent: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM student s JOIN lesson l ON l.class_id = s.class_id
					WHERE s.parent_id = parent.id AND l.teacher_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordSubject: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.subject_id = subject.id AND l.teacher_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordClass: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.class_id = "class".id AND l.teacher_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordLesson: func(id string) Expr { return Eq{Col: "lesson.teacher_id", Val: id} },
		RecordExam: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = exam.lesson_id AND l.teacher_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordAssignment: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = assignment.lesson_id AND l.teacher_id = ?)`,
				Args: []interface{}{id},
			}
		},
		// a result is the teacher's when its exam or assignment hangs off one
		// of their lessons
		RecordResult: func(id string) Expr {
			return Or{
				Sub{
					SQL: `EXISTS (SELECT 1 FROM exam e JOIN lesson l ON l.id = e.lesson_id
						WHERE e.id = result.exam_id AND l.teacher_id = ?)`,
					Args: []interface{}{id},
				},
				Sub{
					SQL: `EXISTS (SELECT 1 FROM assignment a JOIN lesson l ON l.id = a.lesson_id
						WHERE a.id = result.assignment_id AND l.teacher_id = ?)`,
					Args: []interface{}{id},
				},
			}
		},
		RecordAttendance: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM lesson l WHERE l.id = attendance.lesson_id AND l.teacher_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordEvent:        eventClause("event", `EXISTS (SELECT 1 FROM lesson l WHERE l.class_id = event.class_id AND l.teacher_id = ?)`),
		RecordAnnouncement: eventClause("announcement", `EXISTS (SELECT 1 FROM lesson l WHERE l.class_id = announcement.class_id AND l.teacher_id = ?)`),
	},

	RoleStudent: {
		RecordTeacher: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.teacher_id = teacher.id AND s.id = ?)`,
				Args: []interface{}{id},
			}
		},
		// self only
		RecordStudent: func(id string) Expr { return Eq{Col: "student.id", Val: id} },
		RecordParent: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.parent_id = parent.id AND s.id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordSubject: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.subject_id = subject.id AND s.id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordClass: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.class_id = "class".id AND s.id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordLesson: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.class_id = lesson.class_id AND s.id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordExam: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.id = exam.lesson_id AND s.id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordAssignment: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.id = assignment.lesson_id AND s.id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordResult:     func(id string) Expr { return Eq{Col: "result.student_id", Val: id} },
		RecordAttendance: func(id string) Expr { return Eq{Col: "attendance.student_id", Val: id} },
		RecordEvent: eventClause("event",
			`EXISTS (SELECT 1 FROM student s WHERE s.class_id = event.class_id AND s.id = ?)`),
		RecordAnnouncement: eventClause("announcement",
			`EXISTS (SELECT 1 FROM student s WHERE s.class_id = announcement.class_id AND s.id = ?)`),
	},

	RoleParent: {
		RecordTeacher: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.teacher_id = teacher.id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordStudent: func(id string) Expr { return Eq{Col: "student.parent_id", Val: id} },
		// self only
		RecordParent: func(id string) Expr { return Eq{Col: "parent.id", Val: id} },
		RecordSubject: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.subject_id = subject.id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordClass: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.class_id = "class".id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordLesson: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.class_id = lesson.class_id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordExam: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.id = exam.lesson_id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordAssignment: func(id string) Expr {
			return Sub{
				SQL: `EXISTS (SELECT 1 FROM lesson l JOIN student s ON s.class_id = l.class_id
					WHERE l.id = assignment.lesson_id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordResult: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.id = result.student_id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordAttendance: func(id string) Expr {
			return Sub{
				SQL:  `EXISTS (SELECT 1 FROM student s WHERE s.id = attendance.student_id AND s.parent_id = ?)`,
				Args: []interface{}{id},
			}
		},
		RecordEvent: eventClause("event",
			`EXISTS (SELECT 1 FROM student s WHERE s.class_id = event.class_id AND s.parent_id = ?)`),
		RecordAnnouncement: eventClause("announcement",
			`EXISTS (SELECT 1 FROM student s WHERE s.class_id = announcement.class_id AND s.parent_id = ?)`),
	},
}

// eventClause builds the global-or-my-class visibility rule shared by events
// and announcements: rows with a NULL class_id are visible to everyone, the
// rest follow class membership.
func eventClause(table, membershipSQL string) clauseFunc {
	return func(id string) Expr {
		return Or{
			IsNull{Col: table + ".class_id"},
			Sub{SQL: membershipSQL, Args: []interface{}{id}},
		}
	}
}

// Resolve combines the caller's own filters with the mandatory clause for
// (role, record type). The caller's filters only ever narrow the result
// further; identity-based scope comes exclusively from the table above.
//
// Fail-closed rules: an unknown role resolves to a predicate matching nothing
// with ErrUnknownRole; a non-admin caller without a user ID resolves the same
// way with ErrMissingIdentity. Callers must treat both as fatal and must not
// run an unfiltered query instead.
func Resolve(actor Actor, rt RecordType, userFilters Expr) (Expr, error) {
	if !actor.Role.Known() {
		return Nothing{}, ErrUnknownRole
	}
	if actor.Role == RoleAdmin {
		return Conj(userFilters), nil
	}
	if actor.UserID == "" {
		return Nothing{}, ErrMissingIdentity
	}

	clause, ok := mandatoryClauses[actor.Role][rt]
	if !ok {
		return Nothing{}, nil
	}
	return Conj(userFilters, clause(actor.UserID)), nil
}
