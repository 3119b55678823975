package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

const subjectSelect = `
SELECT subject.*,
       (SELECT string_agg(t.name || ' ' || t.surname, ', ' ORDER BY t.surname)
          FROM teacher t
          JOIN subject_teacher st ON st.teacher_id = t.id
         WHERE st.subject_id = subject.id) AS teachers
  FROM subject`

func (repo repository) ListSubjects(ctx context.Context, where access.Expr, page school.Page) ([]school.Subject, int, error) {
	subjects := make([]school.Subject, 0, page.Size)
	total, err := repo.list(ctx, &subjects, subjectSelect, "subject", "subject.name", where, page)
	return subjects, total, err
}

func (repo repository) CreateSubject(ctx context.Context, s school.Subject, teacherIDs []string) (school.Subject, error) {
	err := repo.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &s.ID,
			"INSERT INTO subject (name) VALUES ($1) RETURNING id", s.Name); err != nil {
			return errors.Wrap(err, "inserting subject")
		}
		return setSubjectTeachers(ctx, tx, s.ID, teacherIDs)
	})
	if err != nil {
		return school.Subject{}, err
	}
	return s, nil
}

func (repo repository) UpdateSubject(ctx context.Context, s school.Subject, teacherIDs []string) (school.Subject, error) {
	err := repo.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE subject SET name = $1 WHERE id = $2", s.Name, s.ID); err != nil {
			return errors.Wrap(err, "updating subject")
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM subject_teacher WHERE subject_id = $1", s.ID); err != nil {
			return errors.Wrap(err, "clearing subject teachers")
		}
		return setSubjectTeachers(ctx, tx, s.ID, teacherIDs)
	})
	if err != nil {
		return school.Subject{}, err
	}
	return s, nil
}

func (repo repository) DeleteSubject(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM subject WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}

func setSubjectTeachers(ctx context.Context, tx *sqlx.Tx, subjectID int, teacherIDs []string) error {
	for _, tid := range teacherIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subject_teacher (subject_id, teacher_id) VALUES ($1, $2)", subjectID, tid); err != nil {
			return errors.Wrap(err, "linking subject teacher")
		}
	}
	return nil
}

const classSelect = `
SELECT "class".*, t.name || ' ' || t.surname AS supervisor_name
  FROM "class"
  LEFT JOIN teacher t ON t.id = "class".supervisor_id`

func (repo repository) ListClasses(ctx context.Context, where access.Expr, page school.Page) ([]school.Class, int, error) {
	classes := make([]school.Class, 0, page.Size)
	total, err := repo.list(ctx, &classes, classSelect, `"class"`, `"class".name`, where, page)
	return classes, total, err
}

func (repo repository) GetClass(ctx context.Context, id int) (school.Class, error) {
	var c school.Class
	q := classSelect + ` WHERE "class".id = $1`
	if err := repo.db.GetContext(ctx, &c, q, id); err != nil {
		return school.Class{}, trapDBErr(err, "getting class")
	}
	return c, nil
}

func (repo repository) CreateClass(ctx context.Context, c school.Class) (school.Class, error) {
	const q = `
		INSERT INTO "class" (name, capacity, grade_id, supervisor_id)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &c.ID, q, c.Name, c.Capacity, c.GradeID, c.SupervisorID); err != nil {
		return school.Class{}, errors.Wrap(err, "inserting class")
	}
	return repo.GetClass(ctx, c.ID)
}

func (repo repository) UpdateClass(ctx context.Context, c school.Class) (school.Class, error) {
	const q = `
		UPDATE "class"
		   SET name = $1, capacity = $2, grade_id = $3, supervisor_id = $4
		 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, c.Name, c.Capacity, c.GradeID, c.SupervisorID, c.ID); err != nil {
		return school.Class{}, errors.Wrap(err, "updating class")
	}
	return repo.GetClass(ctx, c.ID)
}

func (repo repository) DeleteClass(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM "class" WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return nil
}

const lessonSelect = `
SELECT lesson.*,
       sub.name AS subject_name,
       c.name AS class_name,
       t.name || ' ' || t.surname AS teacher_name
  FROM lesson
  JOIN subject sub ON sub.id = lesson.subject_id
  JOIN "class" c ON c.id = lesson.class_id
  JOIN teacher t ON t.id = lesson.teacher_id`

func (repo repository) ListLessons(ctx context.Context, where access.Expr, page school.Page) ([]school.Lesson, int, error) {
	lessons := make([]school.Lesson, 0, page.Size)
	total, err := repo.list(ctx, &lessons, lessonSelect, "lesson", "lesson.day, lesson.start_time", where, page)
	return lessons, total, err
}

func (repo repository) GetLesson(ctx context.Context, id int) (school.Lesson, error) {
	var l school.Lesson
	q := lessonSelect + " WHERE lesson.id = $1"
	if err := repo.db.GetContext(ctx, &l, q, id); err != nil {
		return school.Lesson{}, trapDBErr(err, "getting lesson")
	}
	return l, nil
}

func (repo repository) CreateLesson(ctx context.Context, l school.Lesson) (school.Lesson, error) {
	const q = `
		INSERT INTO lesson (name, day, start_time, end_time, subject_id, class_id, teacher_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := repo.db.GetContext(ctx, &l.ID, q,
		l.Name, l.Day, l.StartTime, l.EndTime, l.SubjectID, l.ClassID, l.TeacherID); err != nil {
		return school.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return repo.GetLesson(ctx, l.ID)
}

func (repo repository) UpdateLesson(ctx context.Context, l school.Lesson) (school.Lesson, error) {
	const q = `
		UPDATE lesson
		   SET name = $1, day = $2, start_time = $3, end_time = $4,
		       subject_id = $5, class_id = $6, teacher_id = $7
		 WHERE id = $8`
	if _, err := repo.db.ExecContext(ctx, q,
		l.Name, l.Day, l.StartTime, l.EndTime, l.SubjectID, l.ClassID, l.TeacherID, l.ID); err != nil {
		return school.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	return repo.GetLesson(ctx, l.ID)
}

func (repo repository) DeleteLesson(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM lesson WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return nil
}
