package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

// column maps: qualified column -> value, mirroring what the SQL layer
// exposes to predicates

func teacherCols(t school.Teacher) map[string]interface{} {
	return map[string]interface{}{
		"teacher.id":       t.ID,
		"teacher.username": t.Username,
		"teacher.name":     t.Name,
		"teacher.surname":  t.Surname,
	}
}

func studentCols(s school.Student) map[string]interface{} {
	var parentID interface{}
	if s.ParentID.Valid {
		parentID = s.ParentID.String
	}
	return map[string]interface{}{
		"student.id":        s.ID,
		"student.username":  s.Username,
		"student.name":      s.Name,
		"student.surname":   s.Surname,
		"student.grade_id":  s.GradeID,
		"student.class_id":  s.ClassID,
		"student.parent_id": parentID,
	}
}

func parentCols(p school.Parent) map[string]interface{} {
	return map[string]interface{}{
		"parent.id":      p.ID,
		"parent.name":    p.Name,
		"parent.surname": p.Surname,
	}
}

func subjectCols(s school.Subject) map[string]interface{} {
	return map[string]interface{}{
		"subject.id":   s.ID,
		"subject.name": s.Name,
	}
}

func classCols(c school.Class) map[string]interface{} {
	var supervisorID interface{}
	if c.SupervisorID.Valid {
		supervisorID = c.SupervisorID.String
	}
	return map[string]interface{}{
		`"class".id`:            c.ID,
		`"class".name`:          c.Name,
		`"class".grade_id`:      c.GradeID,
		`"class".supervisor_id`: supervisorID,
	}
}

func lessonCols(l school.Lesson) map[string]interface{} {
	return map[string]interface{}{
		"lesson.id":         l.ID,
		"lesson.name":       l.Name,
		"lesson.day":        l.Day,
		"lesson.subject_id": l.SubjectID,
		"lesson.class_id":   l.ClassID,
		"lesson.teacher_id": l.TeacherID,
	}
}

func examCols(e school.Exam) map[string]interface{} {
	return map[string]interface{}{
		"exam.id":        e.ID,
		"exam.title":     e.Title,
		"exam.lesson_id": e.LessonID,
	}
}

func assignmentCols(a school.Assignment) map[string]interface{} {
	return map[string]interface{}{
		"assignment.id":        a.ID,
		"assignment.title":     a.Title,
		"assignment.lesson_id": a.LessonID,
	}
}

func resultCols(r school.Result) map[string]interface{} {
	var examID, assignmentID interface{}
	if r.ExamID.Valid {
		examID = r.ExamID.Int
	}
	if r.AssignmentID.Valid {
		assignmentID = r.AssignmentID.Int
	}
	return map[string]interface{}{
		"result.id":            r.ID,
		"result.exam_id":       examID,
		"result.assignment_id": assignmentID,
		"result.student_id":    r.StudentID,
	}
}

func attendanceCols(a school.Attendance) map[string]interface{} {
	return map[string]interface{}{
		"attendance.id":         a.ID,
		"attendance.student_id": a.StudentID,
		"attendance.lesson_id":  a.LessonID,
	}
}

func eventCols(e school.Event) map[string]interface{} {
	var classID interface{}
	if e.ClassID.Valid {
		classID = e.ClassID.Int
	}
	return map[string]interface{}{
		"event.id":       e.ID,
		"event.title":    e.Title,
		"event.class_id": classID,
	}
}

func announcementCols(a school.Announcement) map[string]interface{} {
	var classID interface{}
	if a.ClassID.Valid {
		classID = a.ClassID.Int
	}
	return map[string]interface{}{
		"announcement.id":       a.ID,
		"announcement.title":    a.Title,
		"announcement.class_id": classID,
	}
}

// Teachers

func (repo *Repository) ListTeachers(_ context.Context, where access.Expr, page school.Page) ([]school.Teacher, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Teacher, 0, len(repo.teachers))
	for _, t := range repo.teachers {
		if repo.matches(where, teacherCols(t)) {
			rows = append(rows, t)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetTeacher(_ context.Context, id string) (school.Teacher, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if t, ok := repo.teachers[id]; ok {
		return t, nil
	}
	return school.Teacher{}, school.ErrNotFound
}

func (repo *Repository) CreateTeacher(_ context.Context, t school.Teacher, subjectIDs []int) (school.Teacher, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.teachers[t.ID] = t
	for _, sid := range subjectIDs {
		repo.subjectTeacher[sid] = append(repo.subjectTeacher[sid], t.ID)
	}
	return t, nil
}

func (repo *Repository) UpdateTeacher(_ context.Context, t school.Teacher, subjectIDs []int) (school.Teacher, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	orig, ok := repo.teachers[t.ID]
	if !ok {
		return school.Teacher{}, school.ErrNotFound
	}
	t.CreatedAt = orig.CreatedAt
	repo.teachers[t.ID] = t
	for sid := range repo.subjectTeacher {
		repo.subjectTeacher[sid] = remove(repo.subjectTeacher[sid], t.ID)
	}
	for _, sid := range subjectIDs {
		repo.subjectTeacher[sid] = append(repo.subjectTeacher[sid], t.ID)
	}
	return t, nil
}

func (repo *Repository) DeleteTeacher(_ context.Context, id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.teachers, id)
	return nil
}

// Students

func (repo *Repository) ListStudents(_ context.Context, where access.Expr, page school.Page) ([]school.Student, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Student, 0, len(repo.students))
	for _, s := range repo.students {
		if repo.matches(where, studentCols(s)) {
			rows = append(rows, s)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetStudent(_ context.Context, id string) (school.Student, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if s, ok := repo.students[id]; ok {
		return s, nil
	}
	return school.Student{}, school.ErrNotFound
}

func (repo *Repository) CreateStudent(_ context.Context, s school.Student) (school.Student, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.students[s.ID] = s
	return s, nil
}

func (repo *Repository) UpdateStudent(_ context.Context, s school.Student) (school.Student, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	orig, ok := repo.students[s.ID]
	if !ok {
		return school.Student{}, school.ErrNotFound
	}
	s.CreatedAt = orig.CreatedAt
	repo.students[s.ID] = s
	return s, nil
}

func (repo *Repository) DeleteStudent(_ context.Context, id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.students, id)
	return nil
}

// Parents

func (repo *Repository) ListParents(_ context.Context, where access.Expr, page school.Page) ([]school.Parent, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Parent, 0, len(repo.parents))
	for _, p := range repo.parents {
		if repo.matches(where, parentCols(p)) {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetParent(_ context.Context, id string) (school.Parent, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if p, ok := repo.parents[id]; ok {
		return p, nil
	}
	return school.Parent{}, school.ErrNotFound
}

func (repo *Repository) CreateParent(_ context.Context, p school.Parent) (school.Parent, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.parents[p.ID] = p
	return p, nil
}

func (repo *Repository) UpdateParent(_ context.Context, p school.Parent) (school.Parent, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	orig, ok := repo.parents[p.ID]
	if !ok {
		return school.Parent{}, school.ErrNotFound
	}
	p.CreatedAt = orig.CreatedAt
	repo.parents[p.ID] = p
	return p, nil
}

func (repo *Repository) DeleteParent(_ context.Context, id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.parents, id)
	return nil
}

// Subjects

func (repo *Repository) ListSubjects(_ context.Context, where access.Expr, page school.Page) ([]school.Subject, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Subject, 0, len(repo.subjects))
	for _, s := range repo.subjects {
		if repo.matches(where, subjectCols(s)) {
			rows = append(rows, s)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) CreateSubject(_ context.Context, s school.Subject, teacherIDs []string) (school.Subject, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	s.ID = repo.nextPK()
	repo.subjects[s.ID] = s
	repo.subjectTeacher[s.ID] = append([]string(nil), teacherIDs...)
	return s, nil
}

func (repo *Repository) UpdateSubject(_ context.Context, s school.Subject, teacherIDs []string) (school.Subject, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.subjects[s.ID]; !ok {
		return school.Subject{}, school.ErrNotFound
	}
	repo.subjects[s.ID] = s
	repo.subjectTeacher[s.ID] = append([]string(nil), teacherIDs...)
	return s, nil
}

func (repo *Repository) DeleteSubject(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.subjects, id)
	delete(repo.subjectTeacher, id)
	return nil
}

// Classes

func (repo *Repository) ListClasses(_ context.Context, where access.Expr, page school.Page) ([]school.Class, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Class, 0, len(repo.classes))
	for _, c := range repo.classes {
		if repo.matches(where, classCols(c)) {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetClass(_ context.Context, id int) (school.Class, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if c, ok := repo.classes[id]; ok {
		return c, nil
	}
	return school.Class{}, school.ErrNotFound
}

func (repo *Repository) CreateClass(_ context.Context, c school.Class) (school.Class, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	c.ID = repo.nextPK()
	repo.classes[c.ID] = c
	return c, nil
}

func (repo *Repository) UpdateClass(_ context.Context, c school.Class) (school.Class, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.classes[c.ID]; !ok {
		return school.Class{}, school.ErrNotFound
	}
	repo.classes[c.ID] = c
	return c, nil
}

func (repo *Repository) DeleteClass(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.classes, id)
	return nil
}

// Lessons

func (repo *Repository) ListLessons(_ context.Context, where access.Expr, page school.Page) ([]school.Lesson, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Lesson, 0, len(repo.lessons))
	for _, l := range repo.lessons {
		if repo.matches(where, lessonCols(l)) {
			rows = append(rows, l)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetLesson(_ context.Context, id int) (school.Lesson, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if l, ok := repo.lessons[id]; ok {
		return l, nil
	}
	return school.Lesson{}, school.ErrNotFound
}

func (repo *Repository) CreateLesson(_ context.Context, l school.Lesson) (school.Lesson, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	l.ID = repo.nextPK()
	repo.lessons[l.ID] = l
	return l, nil
}

func (repo *Repository) UpdateLesson(_ context.Context, l school.Lesson) (school.Lesson, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.lessons[l.ID]; !ok {
		return school.Lesson{}, school.ErrNotFound
	}
	repo.lessons[l.ID] = l
	return l, nil
}

func (repo *Repository) DeleteLesson(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.lessons, id)
	return nil
}

// Exams

func (repo *Repository) ListExams(_ context.Context, where access.Expr, page school.Page) ([]school.Exam, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Exam, 0, len(repo.exams))
	for _, e := range repo.exams {
		if repo.matches(where, examCols(e)) {
			rows = append(rows, e)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetExam(_ context.Context, id int) (school.Exam, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if e, ok := repo.exams[id]; ok {
		return e, nil
	}
	return school.Exam{}, school.ErrNotFound
}

func (repo *Repository) CreateExam(_ context.Context, e school.Exam) (school.Exam, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	e.ID = repo.nextPK()
	repo.exams[e.ID] = e
	return e, nil
}

func (repo *Repository) UpdateExam(_ context.Context, e school.Exam) (school.Exam, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.exams[e.ID]; !ok {
		return school.Exam{}, school.ErrNotFound
	}
	repo.exams[e.ID] = e
	return e, nil
}

func (repo *Repository) DeleteExam(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.exams, id)
	return nil
}

// Assignments

func (repo *Repository) ListAssignments(_ context.Context, where access.Expr, page school.Page) ([]school.Assignment, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Assignment, 0, len(repo.assignments))
	for _, a := range repo.assignments {
		if repo.matches(where, assignmentCols(a)) {
			rows = append(rows, a)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetAssignment(_ context.Context, id int) (school.Assignment, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if a, ok := repo.assignments[id]; ok {
		return a, nil
	}
	return school.Assignment{}, school.ErrNotFound
}

func (repo *Repository) CreateAssignment(_ context.Context, a school.Assignment) (school.Assignment, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	a.ID = repo.nextPK()
	repo.assignments[a.ID] = a
	return a, nil
}

func (repo *Repository) UpdateAssignment(_ context.Context, a school.Assignment) (school.Assignment, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.assignments[a.ID]; !ok {
		return school.Assignment{}, school.ErrNotFound
	}
	repo.assignments[a.ID] = a
	return a, nil
}

func (repo *Repository) DeleteAssignment(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.assignments, id)
	return nil
}

// Results

func (repo *Repository) ListResults(_ context.Context, where access.Expr, page school.Page) ([]school.Result, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Result, 0, len(repo.results))
	for _, r := range repo.results {
		if repo.matches(where, resultCols(r)) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetResult(_ context.Context, id int) (school.Result, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if r, ok := repo.results[id]; ok {
		return r, nil
	}
	return school.Result{}, school.ErrNotFound
}

func (repo *Repository) CreateResult(_ context.Context, r school.Result) (school.Result, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	r.ID = repo.nextPK()
	repo.results[r.ID] = r
	return r, nil
}

func (repo *Repository) UpdateResult(_ context.Context, r school.Result) (school.Result, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.results[r.ID]; !ok {
		return school.Result{}, school.ErrNotFound
	}
	repo.results[r.ID] = r
	return r, nil
}

func (repo *Repository) DeleteResult(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.results, id)
	return nil
}

// Attendances

func (repo *Repository) ListAttendances(_ context.Context, where access.Expr, page school.Page) ([]school.Attendance, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Attendance, 0, len(repo.attendances))
	for _, a := range repo.attendances {
		if repo.matches(where, attendanceCols(a)) {
			rows = append(rows, a)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) GetAttendance(_ context.Context, id int) (school.Attendance, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if a, ok := repo.attendances[id]; ok {
		return a, nil
	}
	return school.Attendance{}, school.ErrNotFound
}

func (repo *Repository) CreateAttendance(_ context.Context, a school.Attendance) (school.Attendance, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	a.ID = repo.nextPK()
	repo.attendances[a.ID] = a
	return a, nil
}

func (repo *Repository) UpdateAttendance(_ context.Context, a school.Attendance) (school.Attendance, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.attendances[a.ID]; !ok {
		return school.Attendance{}, school.ErrNotFound
	}
	repo.attendances[a.ID] = a
	return a, nil
}

func (repo *Repository) DeleteAttendance(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.attendances, id)
	return nil
}

// Events

func (repo *Repository) ListEvents(_ context.Context, where access.Expr, page school.Page) ([]school.Event, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Event, 0, len(repo.events))
	for _, e := range repo.events {
		if repo.matches(where, eventCols(e)) {
			rows = append(rows, e)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) CreateEvent(_ context.Context, e school.Event) (school.Event, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	e.ID = repo.nextPK()
	repo.events[e.ID] = e
	return e, nil
}

func (repo *Repository) UpdateEvent(_ context.Context, e school.Event) (school.Event, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.events[e.ID]; !ok {
		return school.Event{}, school.ErrNotFound
	}
	repo.events[e.ID] = e
	return e, nil
}

func (repo *Repository) DeleteEvent(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.events, id)
	return nil
}

// Announcements

func (repo *Repository) ListAnnouncements(_ context.Context, where access.Expr, page school.Page) ([]school.Announcement, int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rows := make([]school.Announcement, 0, len(repo.announcements))
	for _, a := range repo.announcements {
		if repo.matches(where, announcementCols(a)) {
			rows = append(rows, a)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	paged, total := paginate(rows, page)
	return paged, total, nil
}

func (repo *Repository) CreateAnnouncement(_ context.Context, a school.Announcement) (school.Announcement, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	a.ID = repo.nextPK()
	repo.announcements[a.ID] = a
	return a, nil
}

func (repo *Repository) UpdateAnnouncement(_ context.Context, a school.Announcement) (school.Announcement, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.announcements[a.ID]; !ok {
		return school.Announcement{}, school.ErrNotFound
	}
	repo.announcements[a.ID] = a
	return a, nil
}

func (repo *Repository) DeleteAnnouncement(_ context.Context, id int) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	delete(repo.announcements, id)
	return nil
}

// Helpers shared with the service layer

func (repo *Repository) ClassStudentCount(_ context.Context, classID int) (int, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	var count int
	for _, s := range repo.students {
		if s.ClassID == classID {
			count++
		}
	}
	return count, nil
}

func (repo *Repository) ClearParentStudents(_ context.Context, parentID string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for id, s := range repo.students {
		if s.ParentID.Valid && s.ParentID.String == parentID {
			s.ParentID = null.String{}
			repo.students[id] = s
		}
	}
	return nil
}

func (repo *Repository) AssignParentStudents(_ context.Context, parentID string, studentIDs []string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	for _, id := range studentIDs {
		if s, ok := repo.students[id]; ok {
			s.ParentID = null.StringFrom(parentID)
			repo.students[id] = s
		}
	}
	return nil
}

func (repo *Repository) ParentEmails(_ context.Context, classID null.Int) ([]string, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	seen := make(map[string]bool)
	var emails []string
	add := func(p school.Parent) {
		if p.Email.Valid && !seen[p.Email.String] {
			seen[p.Email.String] = true
			emails = append(emails, p.Email.String)
		}
	}
	if !classID.Valid {
		for _, p := range repo.parents {
			add(p)
		}
		sort.Strings(emails)
		return emails, nil
	}
	for _, s := range repo.students {
		if s.ClassID != classID.Int || !s.ParentID.Valid {
			continue
		}
		if p, ok := repo.parents[s.ParentID.String]; ok {
			add(p)
		}
	}
	sort.Strings(emails)
	return emails, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
