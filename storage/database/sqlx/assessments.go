package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

const examSelect = `
SELECT exam.*,
       sub.name AS subject_name,
       c.name AS class_name,
       t.name || ' ' || t.surname AS teacher_name
  FROM exam
  JOIN lesson l ON l.id = exam.lesson_id
  JOIN subject sub ON sub.id = l.subject_id
  JOIN "class" c ON c.id = l.class_id
  JOIN teacher t ON t.id = l.teacher_id`

func (repo repository) ListExams(ctx context.Context, where access.Expr, page school.Page) ([]school.Exam, int, error) {
	exams := make([]school.Exam, 0, page.Size)
	total, err := repo.list(ctx, &exams, examSelect, "exam", "exam.start_time DESC", where, page)
	return exams, total, err
}

func (repo repository) GetExam(ctx context.Context, id int) (school.Exam, error) {
	var e school.Exam
	q := examSelect + " WHERE exam.id = $1"
	if err := repo.db.GetContext(ctx, &e, q, id); err != nil {
		return school.Exam{}, trapDBErr(err, "getting exam")
	}
	return e, nil
}

func (repo repository) CreateExam(ctx context.Context, e school.Exam) (school.Exam, error) {
	const q = `
		INSERT INTO exam (title, start_time, end_time, lesson_id)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &e.ID, q, e.Title, e.StartTime, e.EndTime, e.LessonID); err != nil {
		return school.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return repo.GetExam(ctx, e.ID)
}

func (repo repository) UpdateExam(ctx context.Context, e school.Exam) (school.Exam, error) {
	const q = `
		UPDATE exam
		   SET title = $1, start_time = $2, end_time = $3, lesson_id = $4
		 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, e.Title, e.StartTime, e.EndTime, e.LessonID, e.ID); err != nil {
		return school.Exam{}, errors.Wrap(err, "updating exam")
	}
	return repo.GetExam(ctx, e.ID)
}

func (repo repository) DeleteExam(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM exam WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting exam")
	}
	return nil
}

const assignmentSelect = `
SELECT assignment.*,
       sub.name AS subject_name,
       c.name AS class_name,
       t.name || ' ' || t.surname AS teacher_name
  FROM assignment
  JOIN lesson l ON l.id = assignment.lesson_id
  JOIN subject sub ON sub.id = l.subject_id
  JOIN "class" c ON c.id = l.class_id
  JOIN teacher t ON t.id = l.teacher_id`

func (repo repository) ListAssignments(ctx context.Context, where access.Expr, page school.Page) ([]school.Assignment, int, error) {
	assignments := make([]school.Assignment, 0, page.Size)
	total, err := repo.list(ctx, &assignments, assignmentSelect, "assignment", "assignment.due_date DESC", where, page)
	return assignments, total, err
}

func (repo repository) GetAssignment(ctx context.Context, id int) (school.Assignment, error) {
	var a school.Assignment
	q := assignmentSelect + " WHERE assignment.id = $1"
	if err := repo.db.GetContext(ctx, &a, q, id); err != nil {
		return school.Assignment{}, trapDBErr(err, "getting assignment")
	}
	return a, nil
}

func (repo repository) CreateAssignment(ctx context.Context, a school.Assignment) (school.Assignment, error) {
	const q = `
		INSERT INTO assignment (title, start_date, due_date, lesson_id)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &a.ID, q, a.Title, a.StartDate, a.DueDate, a.LessonID); err != nil {
		return school.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return repo.GetAssignment(ctx, a.ID)
}

func (repo repository) UpdateAssignment(ctx context.Context, a school.Assignment) (school.Assignment, error) {
	const q = `
		UPDATE assignment
		   SET title = $1, start_date = $2, due_date = $3, lesson_id = $4
		 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, a.Title, a.StartDate, a.DueDate, a.LessonID, a.ID); err != nil {
		return school.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return repo.GetAssignment(ctx, a.ID)
}

func (repo repository) DeleteAssignment(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM assignment WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}

const resultSelect = `
SELECT result.*,
       COALESCE(e.title, a.title) AS title,
       s.name || ' ' || s.surname AS student_name,
       t.name || ' ' || t.surname AS teacher_name,
       c.name AS class_name
  FROM result
  LEFT JOIN exam e ON e.id = result.exam_id
  LEFT JOIN assignment a ON a.id = result.assignment_id
  LEFT JOIN lesson l ON l.id = COALESCE(e.lesson_id, a.lesson_id)
  LEFT JOIN teacher t ON t.id = l.teacher_id
  LEFT JOIN "class" c ON c.id = l.class_id
  JOIN student s ON s.id = result.student_id`

func (repo repository) ListResults(ctx context.Context, where access.Expr, page school.Page) ([]school.Result, int, error) {
	results := make([]school.Result, 0, page.Size)
	total, err := repo.list(ctx, &results, resultSelect, "result", "result.id DESC", where, page)
	return results, total, err
}

func (repo repository) GetResult(ctx context.Context, id int) (school.Result, error) {
	var r school.Result
	q := resultSelect + " WHERE result.id = $1"
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return school.Result{}, trapDBErr(err, "getting result")
	}
	return r, nil
}

func (repo repository) CreateResult(ctx context.Context, r school.Result) (school.Result, error) {
	const q = `
		INSERT INTO result (score, exam_id, assignment_id, student_id)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &r.ID, q, r.Score, r.ExamID, r.AssignmentID, r.StudentID); err != nil {
		return school.Result{}, errors.Wrap(err, "inserting result")
	}
	return repo.GetResult(ctx, r.ID)
}

func (repo repository) UpdateResult(ctx context.Context, r school.Result) (school.Result, error) {
	const q = `
		UPDATE result
		   SET score = $1, exam_id = $2, assignment_id = $3, student_id = $4
		 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, r.Score, r.ExamID, r.AssignmentID, r.StudentID, r.ID); err != nil {
		return school.Result{}, errors.Wrap(err, "updating result")
	}
	return repo.GetResult(ctx, r.ID)
}

func (repo repository) DeleteResult(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM result WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return nil
}

func (repo repository) ListAttendances(ctx context.Context, where access.Expr, page school.Page) ([]school.Attendance, int, error) {
	attendances := make([]school.Attendance, 0, page.Size)
	total, err := repo.list(ctx, &attendances,
		"SELECT attendance.* FROM attendance", "attendance", "attendance.date DESC", where, page)
	return attendances, total, err
}

func (repo repository) GetAttendance(ctx context.Context, id int) (school.Attendance, error) {
	var a school.Attendance
	if err := repo.db.GetContext(ctx, &a, "SELECT attendance.* FROM attendance WHERE attendance.id = $1", id); err != nil {
		return school.Attendance{}, trapDBErr(err, "getting attendance")
	}
	return a, nil
}

func (repo repository) CreateAttendance(ctx context.Context, a school.Attendance) (school.Attendance, error) {
	const q = `
		INSERT INTO attendance (date, present, student_id, lesson_id)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &a.ID, q, a.Date, a.Present, a.StudentID, a.LessonID); err != nil {
		return school.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return a, nil
}

func (repo repository) UpdateAttendance(ctx context.Context, a school.Attendance) (school.Attendance, error) {
	const q = `
		UPDATE attendance
		   SET date = $1, present = $2, student_id = $3, lesson_id = $4
		 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, a.Date, a.Present, a.StudentID, a.LessonID, a.ID); err != nil {
		return school.Attendance{}, errors.Wrap(err, "updating attendance")
	}
	return a, nil
}

func (repo repository) DeleteAttendance(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return nil
}
