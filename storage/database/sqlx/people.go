package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

const teacherSelect = `
SELECT teacher.*,
       (SELECT string_agg(s.name, ', ' ORDER BY s.name)
          FROM subject s
          JOIN subject_teacher st ON st.subject_id = s.id
         WHERE st.teacher_id = teacher.id) AS subjects
  FROM teacher`

func (repo repository) ListTeachers(ctx context.Context, where access.Expr, page school.Page) ([]school.Teacher, int, error) {
	teachers := make([]school.Teacher, 0, page.Size)
	total, err := repo.list(ctx, &teachers, teacherSelect, "teacher", "teacher.surname, teacher.name", where, page)
	return teachers, total, err
}

func (repo repository) GetTeacher(ctx context.Context, id string) (school.Teacher, error) {
	var t school.Teacher
	q := teacherSelect + " WHERE teacher.id = $1"
	if err := repo.db.GetContext(ctx, &t, q, id); err != nil {
		return school.Teacher{}, trapDBErr(err, "getting teacher")
	}
	return t, nil
}

func (repo repository) CreateTeacher(ctx context.Context, t school.Teacher, subjectIDs []int) (school.Teacher, error) {
	err := repo.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
			INSERT INTO teacher (id, username, name, surname, email, phone, address, img, blood_type, gender, birthday, created_at)
			VALUES (:id, :username, :name, :surname, :email, :phone, :address, :img, :blood_type, :gender, :birthday, :created_at)`
		if _, err := tx.NamedExecContext(ctx, q, t); err != nil {
			return errors.Wrap(err, "inserting teacher")
		}
		return setTeacherSubjects(ctx, tx, t.ID, subjectIDs)
	})
	if err != nil {
		return school.Teacher{}, err
	}
	return repo.GetTeacher(ctx, t.ID)
}

func (repo repository) UpdateTeacher(ctx context.Context, t school.Teacher, subjectIDs []int) (school.Teacher, error) {
	err := repo.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
			UPDATE teacher
			   SET username = :username, name = :name, surname = :surname, email = :email,
			       phone = :phone, address = :address, img = :img, blood_type = :blood_type,
			       gender = :gender, birthday = :birthday
			 WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, q, t); err != nil {
			return errors.Wrap(err, "updating teacher")
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM subject_teacher WHERE teacher_id = $1", t.ID); err != nil {
			return errors.Wrap(err, "clearing teacher subjects")
		}
		return setTeacherSubjects(ctx, tx, t.ID, subjectIDs)
	})
	if err != nil {
		return school.Teacher{}, err
	}
	return repo.GetTeacher(ctx, t.ID)
}

func (repo repository) DeleteTeacher(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM teacher WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return nil
}

func setTeacherSubjects(ctx context.Context, tx *sqlx.Tx, teacherID string, subjectIDs []int) error {
	for _, sid := range subjectIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subject_teacher (subject_id, teacher_id) VALUES ($1, $2)", sid, teacherID); err != nil {
			return errors.Wrap(err, "linking teacher subject")
		}
	}
	return nil
}

const studentSelect = `
SELECT student.*, c.name AS class_name
  FROM student
  JOIN "class" c ON c.id = student.class_id`

func (repo repository) ListStudents(ctx context.Context, where access.Expr, page school.Page) ([]school.Student, int, error) {
	students := make([]school.Student, 0, page.Size)
	total, err := repo.list(ctx, &students, studentSelect, "student", "student.surname, student.name", where, page)
	return students, total, err
}

func (repo repository) GetStudent(ctx context.Context, id string) (school.Student, error) {
	var s school.Student
	q := studentSelect + " WHERE student.id = $1"
	if err := repo.db.GetContext(ctx, &s, q, id); err != nil {
		return school.Student{}, trapDBErr(err, "getting student")
	}
	return s, nil
}

func (repo repository) CreateStudent(ctx context.Context, s school.Student) (school.Student, error) {
	const q = `
		INSERT INTO student (id, username, name, surname, email, phone, address, img, blood_type, gender,
		                     birthday, grade_id, class_id, parent_id, created_at)
		VALUES (:id, :username, :name, :surname, :email, :phone, :address, :img, :blood_type, :gender,
		        :birthday, :grade_id, :class_id, :parent_id, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		return school.Student{}, errors.Wrap(err, "inserting student")
	}
	return repo.GetStudent(ctx, s.ID)
}

func (repo repository) UpdateStudent(ctx context.Context, s school.Student) (school.Student, error) {
	const q = `
		UPDATE student
		   SET username = :username, name = :name, surname = :surname, email = :email, phone = :phone,
		       address = :address, img = :img, blood_type = :blood_type, gender = :gender,
		       birthday = :birthday, grade_id = :grade_id, class_id = :class_id, parent_id = :parent_id
		 WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		return school.Student{}, errors.Wrap(err, "updating student")
	}
	return repo.GetStudent(ctx, s.ID)
}

func (repo repository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM student WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}

func (repo repository) ListParents(ctx context.Context, where access.Expr, page school.Page) ([]school.Parent, int, error) {
	parents := make([]school.Parent, 0, page.Size)
	total, err := repo.list(ctx, &parents, "SELECT parent.* FROM parent", "parent", "parent.surname, parent.name", where, page)
	return parents, total, err
}

func (repo repository) GetParent(ctx context.Context, id string) (school.Parent, error) {
	var p school.Parent
	if err := repo.db.GetContext(ctx, &p, "SELECT parent.* FROM parent WHERE parent.id = $1", id); err != nil {
		return school.Parent{}, trapDBErr(err, "getting parent")
	}
	return p, nil
}

func (repo repository) CreateParent(ctx context.Context, p school.Parent) (school.Parent, error) {
	const q = `
		INSERT INTO parent (id, username, name, surname, email, phone, address, created_at)
		VALUES (:id, :username, :name, :surname, :email, :phone, :address, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, p); err != nil {
		return school.Parent{}, errors.Wrap(err, "inserting parent")
	}
	return repo.GetParent(ctx, p.ID)
}

func (repo repository) UpdateParent(ctx context.Context, p school.Parent) (school.Parent, error) {
	const q = `
		UPDATE parent
		   SET username = :username, name = :name, surname = :surname, email = :email,
		       phone = :phone, address = :address
		 WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, p); err != nil {
		return school.Parent{}, errors.Wrap(err, "updating parent")
	}
	return repo.GetParent(ctx, p.ID)
}

func (repo repository) DeleteParent(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM parent WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting parent")
	}
	return nil
}

func (repo repository) ClassStudentCount(ctx context.Context, classID int) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM student WHERE class_id = $1", classID); err != nil {
		return 0, errors.Wrap(err, "counting class students")
	}
	return count, nil
}

func (repo repository) ClearParentStudents(ctx context.Context, parentID string) error {
	if _, err := repo.db.ExecContext(ctx, "UPDATE student SET parent_id = NULL WHERE parent_id = $1", parentID); err != nil {
		return errors.Wrap(err, "clearing parent students")
	}
	return nil
}

func (repo repository) AssignParentStudents(ctx context.Context, parentID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	q, args, err := sqlx.In("UPDATE student SET parent_id = ? WHERE id IN (?)", parentID, studentIDs)
	if err != nil {
		return errors.Wrap(err, "assigning parent students")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "assigning parent students")
	}
	return nil
}

func (repo repository) ParentEmails(ctx context.Context, classID null.Int) ([]string, error) {
	var emails []string
	if classID.Valid {
		const q = `
			SELECT DISTINCT p.email FROM parent p
			  JOIN student s ON s.parent_id = p.id
			 WHERE s.class_id = $1 AND p.email IS NOT NULL`
		if err := repo.db.SelectContext(ctx, &emails, q, classID.Int); err != nil {
			return nil, errors.Wrap(err, "fetching class parent emails")
		}
		return emails, nil
	}
	if err := repo.db.SelectContext(ctx, &emails, "SELECT email FROM parent WHERE email IS NOT NULL"); err != nil {
		return nil, errors.Wrap(err, "fetching parent emails")
	}
	return emails, nil
}
