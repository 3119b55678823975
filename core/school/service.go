package school

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
)

var (
	// errors
	ErrNotFound         = stderrors.New("record not found")
	ErrIdentityProvider = stderrors.New("identity provider failure")
)

// Page is 1-based pagination. Size and offset are applied after the
// security-relevant predicate, never as part of it.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

type (
	Repository interface {
		// List queries. `where` is the fully resolved predicate (mandatory
		// role clause included); implementations must apply it verbatim and
		// return the page of rows plus the unpaged total count.
		ListTeachers(ctx context.Context, where access.Expr, page Page) ([]Teacher, int, error)
		ListStudents(ctx context.Context, where access.Expr, page Page) ([]Student, int, error)
		ListParents(ctx context.Context, where access.Expr, page Page) ([]Parent, int, error)
		ListSubjects(ctx context.Context, where access.Expr, page Page) ([]Subject, int, error)
		ListClasses(ctx context.Context, where access.Expr, page Page) ([]Class, int, error)
		ListLessons(ctx context.Context, where access.Expr, page Page) ([]Lesson, int, error)
		ListExams(ctx context.Context, where access.Expr, page Page) ([]Exam, int, error)
		ListAssignments(ctx context.Context, where access.Expr, page Page) ([]Assignment, int, error)
		ListResults(ctx context.Context, where access.Expr, page Page) ([]Result, int, error)
		ListAttendances(ctx context.Context, where access.Expr, page Page) ([]Attendance, int, error)
		ListEvents(ctx context.Context, where access.Expr, page Page) ([]Event, int, error)
		ListAnnouncements(ctx context.Context, where access.Expr, page Page) ([]Announcement, int, error)

		GetTeacher(ctx context.Context, id string) (Teacher, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		GetParent(ctx context.Context, id string) (Parent, error)
		GetClass(ctx context.Context, id int) (Class, error)
		GetLesson(ctx context.Context, id int) (Lesson, error)
		GetExam(ctx context.Context, id int) (Exam, error)
		GetAssignment(ctx context.Context, id int) (Assignment, error)
		GetResult(ctx context.Context, id int) (Result, error)
		GetAttendance(ctx context.Context, id int) (Attendance, error)

		CreateTeacher(ctx context.Context, t Teacher, subjectIDs []int) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher, subjectIDs []int) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
		CreateStudent(ctx context.Context, s Student) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
		CreateParent(ctx context.Context, p Parent) (Parent, error)
		UpdateParent(ctx context.Context, p Parent) (Parent, error)
		DeleteParent(ctx context.Context, id string) error
		CreateSubject(ctx context.Context, s Subject, teacherIDs []string) (Subject, error)
		UpdateSubject(ctx context.Context, s Subject, teacherIDs []string) (Subject, error)
		DeleteSubject(ctx context.Context, id int) error
		CreateClass(ctx context.Context, c Class) (Class, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClass(ctx context.Context, id int) error
		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id int) error
		CreateExam(ctx context.Context, e Exam) (Exam, error)
		UpdateExam(ctx context.Context, e Exam) (Exam, error)
		DeleteExam(ctx context.Context, id int) error
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id int) error
		CreateResult(ctx context.Context, r Result) (Result, error)
		UpdateResult(ctx context.Context, r Result) (Result, error)
		DeleteResult(ctx context.Context, id int) error
		CreateAttendance(ctx context.Context, a Attendance) (Attendance, error)
		UpdateAttendance(ctx context.Context, a Attendance) (Attendance, error)
		DeleteAttendance(ctx context.Context, id int) error
		CreateEvent(ctx context.Context, e Event) (Event, error)
		UpdateEvent(ctx context.Context, e Event) (Event, error)
		DeleteEvent(ctx context.Context, id int) error
		CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		UpdateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		DeleteAnnouncement(ctx context.Context, id int) error

		ClassStudentCount(ctx context.Context, classID int) (int, error)
		// ClearParentStudents NULLs parent_id on every student of the parent.
		ClearParentStudents(ctx context.Context, parentID string) error
		AssignParentStudents(ctx context.Context, parentID string, studentIDs []string) error
		// ParentEmails returns the e-mail addresses of parents with a child in
		// the given class, or of all parents when classID is null (global
		// events/announcements).
		ParentEmails(ctx context.Context, classID null.Int) ([]string, error)
	}

	Service struct {
		repo Repository
		idp  core.IdentityService
		mail core.EmailService
		log  core.Logger
	}
)

func NewService(repo Repository, idp core.IdentityService, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{repo: repo, idp: idp, mail: mailSvc, log: log}
}

func (svc *Service) page(n int) Page {
	if n < 1 {
		n = 1
	}
	return Page{Number: n, Size: core.Conf.PageSize}
}

// List queries
//
// Every list call resolves the combined predicate first. A resolution error
// is fatal: the store is never queried, zero rows come back.

func (svc *Service) ListTeachers(ctx context.Context, actor access.Actor, f TeacherFilter, page int) ([]Teacher, int, error) {
	where, err := access.Resolve(actor, access.RecordTeacher, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Teacher{}, 0, err
	}
	return svc.repo.ListTeachers(ctx, where, svc.page(page))
}

func (svc *Service) ListStudents(ctx context.Context, actor access.Actor, f StudentFilter, page int) ([]Student, int, error) {
	where, err := access.Resolve(actor, access.RecordStudent, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Student{}, 0, err
	}
	return svc.repo.ListStudents(ctx, where, svc.page(page))
}

func (svc *Service) ListParents(ctx context.Context, actor access.Actor, f ParentFilter, page int) ([]Parent, int, error) {
	where, err := access.Resolve(actor, access.RecordParent, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Parent{}, 0, err
	}
	return svc.repo.ListParents(ctx, where, svc.page(page))
}

func (svc *Service) ListSubjects(ctx context.Context, actor access.Actor, f SubjectFilter, page int) ([]Subject, int, error) {
	where, err := access.Resolve(actor, access.RecordSubject, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Subject{}, 0, err
	}
	return svc.repo.ListSubjects(ctx, where, svc.page(page))
}

func (svc *Service) ListClasses(ctx context.Context, actor access.Actor, f ClassFilter, page int) ([]Class, int, error) {
	where, err := access.Resolve(actor, access.RecordClass, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Class{}, 0, err
	}
	return svc.repo.ListClasses(ctx, where, svc.page(page))
}

func (svc *Service) ListLessons(ctx context.Context, actor access.Actor, f LessonFilter, page int) ([]Lesson, int, error) {
	where, err := access.Resolve(actor, access.RecordLesson, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Lesson{}, 0, err
	}
	return svc.repo.ListLessons(ctx, where, svc.page(page))
}

func (svc *Service) ListExams(ctx context.Context, actor access.Actor, f ExamFilter, page int) ([]Exam, int, error) {
	where, err := access.Resolve(actor, access.RecordExam, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Exam{}, 0, err
	}
	return svc.repo.ListExams(ctx, where, svc.page(page))
}

func (svc *Service) ListAssignments(ctx context.Context, actor access.Actor, f AssignmentFilter, page int) ([]Assignment, int, error) {
	where, err := access.Resolve(actor, access.RecordAssignment, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Assignment{}, 0, err
	}
	return svc.repo.ListAssignments(ctx, where, svc.page(page))
}

func (svc *Service) ListResults(ctx context.Context, actor access.Actor, f ResultFilter, page int) ([]Result, int, error) {
	where, err := access.Resolve(actor, access.RecordResult, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Result{}, 0, err
	}
	return svc.repo.ListResults(ctx, where, svc.page(page))
}

func (svc *Service) ListAttendances(ctx context.Context, actor access.Actor, f AttendanceFilter, page int) ([]Attendance, int, error) {
	where, err := access.Resolve(actor, access.RecordAttendance, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Attendance{}, 0, err
	}
	return svc.repo.ListAttendances(ctx, where, svc.page(page))
}

func (svc *Service) ListEvents(ctx context.Context, actor access.Actor, f EventFilter, page int) ([]Event, int, error) {
	where, err := access.Resolve(actor, access.RecordEvent, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Event{}, 0, err
	}
	return svc.repo.ListEvents(ctx, where, svc.page(page))
}

func (svc *Service) ListAnnouncements(ctx context.Context, actor access.Actor, f AnnouncementFilter, page int) ([]Announcement, int, error) {
	where, err := access.Resolve(actor, access.RecordAnnouncement, f.Expr())
	if err != nil || access.MatchesNothing(where) {
		return []Announcement{}, 0, err
	}
	return svc.repo.ListAnnouncements(ctx, where, svc.page(page))
}

// Identity-provider helpers

func (svc *Service) createAccount(ctx context.Context, p NewPerson, role access.Role) (core.IdentityAccount, error) {
	acct, err := svc.idp.CreateAccount(ctx, core.NewIdentityAccount{
		Username:  p.Username,
		Password:  p.Password,
		FirstName: p.Name,
		LastName:  p.Surname,
		Role:      string(role),
	})
	if err != nil {
		svc.log.Error("identity provider: creating account", err)
		return core.IdentityAccount{}, errors.Wrap(ErrIdentityProvider, err.Error())
	}
	return acct, nil
}

func (svc *Service) updateAccount(ctx context.Context, id string, p UpdatePerson) error {
	_, err := svc.idp.UpdateAccount(ctx, id, core.UpdateIdentityAccount{
		Username:  p.Username,
		Password:  p.Password,
		FirstName: p.Name,
		LastName:  p.Surname,
	})
	if err != nil {
		svc.log.Error("identity provider: updating account", err)
		return errors.Wrap(ErrIdentityProvider, err.Error())
	}
	return nil
}

func (svc *Service) deleteAccount(ctx context.Context, id string) error {
	if err := svc.idp.DeleteAccount(ctx, id); err != nil {
		svc.log.Error("identity provider: deleting account", err)
		return errors.Wrap(ErrIdentityProvider, err.Error())
	}
	return nil
}

// Teacher mutations (admin only)

func (svc *Service) CreateTeacher(ctx context.Context, actor access.Actor, data NewTeacher) (Teacher, error) {
	if err := access.Authorize(actor, access.RecordTeacher, access.OpCreate, access.Target{}); err != nil {
		return Teacher{}, err
	}
	if err := data.Validate(); err != nil {
		return Teacher{}, err
	}

	acct, err := svc.createAccount(ctx, data.NewPerson, access.RoleTeacher)
	if err != nil {
		return Teacher{}, err
	}
	t := Teacher{
		ID:        acct.ID,
		Username:  data.Username,
		Name:      data.Name,
		Surname:   data.Surname,
		Email:     null.NewString(data.Email, data.Email != ""),
		Phone:     null.NewString(data.Phone, data.Phone != ""),
		Address:   data.Address,
		Img:       null.NewString(data.Img, data.Img != ""),
		BloodType: data.BloodType,
		Gender:    data.Gender,
		Birthday:  data.Birthday,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateTeacher(ctx, t, data.SubjectIDs)
}

func (svc *Service) UpdateTeacher(ctx context.Context, actor access.Actor, id string, data UpdateTeacher) (Teacher, error) {
	if err := access.Authorize(actor, access.RecordTeacher, access.OpUpdate, access.Target{TeacherID: actor.UserID}); err != nil {
		return Teacher{}, err
	}
	if err := data.Validate(); err != nil {
		return Teacher{}, err
	}
	if _, err := svc.repo.GetTeacher(ctx, id); err != nil {
		return Teacher{}, err
	}

	if err := svc.updateAccount(ctx, id, data.UpdatePerson); err != nil {
		return Teacher{}, err
	}
	t := Teacher{
		ID:        id,
		Username:  data.Username,
		Name:      data.Name,
		Surname:   data.Surname,
		Email:     null.NewString(data.Email, data.Email != ""),
		Phone:     null.NewString(data.Phone, data.Phone != ""),
		Address:   data.Address,
		Img:       null.NewString(data.Img, data.Img != ""),
		BloodType: data.BloodType,
		Gender:    data.Gender,
		Birthday:  data.Birthday,
	}
	return svc.repo.UpdateTeacher(ctx, t, data.SubjectIDs)
}

func (svc *Service) DeleteTeacher(ctx context.Context, actor access.Actor, id string) error {
	if err := access.Authorize(actor, access.RecordTeacher, access.OpDelete, access.Target{TeacherID: actor.UserID}); err != nil {
		return err
	}
	if _, err := svc.repo.GetTeacher(ctx, id); err != nil {
		return err
	}
	if err := svc.deleteAccount(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteTeacher(ctx, id)
}

// Student mutations (admin only; class capacity enforced)

func (svc *Service) checkClassCapacity(ctx context.Context, classID int) error {
	cls, err := svc.repo.GetClass(ctx, classID)
	if err != nil {
		return err
	}
	count, err := svc.repo.ClassStudentCount(ctx, classID)
	if err != nil {
		return err
	}
	if count >= cls.Capacity {
		return access.ErrCapacityExceeded
	}
	return nil
}

func (svc *Service) CreateStudent(ctx context.Context, actor access.Actor, data NewStudent) (Student, error) {
	if err := access.Authorize(actor, access.RecordStudent, access.OpCreate, access.Target{}); err != nil {
		return Student{}, err
	}
	if err := data.Validate(); err != nil {
		return Student{}, err
	}
	if err := svc.checkClassCapacity(ctx, data.ClassID); err != nil {
		return Student{}, err
	}

	acct, err := svc.createAccount(ctx, data.NewPerson, access.RoleStudent)
	if err != nil {
		return Student{}, err
	}
	s := Student{
		ID:        acct.ID,
		Username:  data.Username,
		Name:      data.Name,
		Surname:   data.Surname,
		Email:     null.NewString(data.Email, data.Email != ""),
		Phone:     null.NewString(data.Phone, data.Phone != ""),
		Address:   data.Address,
		Img:       null.NewString(data.Img, data.Img != ""),
		BloodType: data.BloodType,
		Gender:    data.Gender,
		Birthday:  data.Birthday,
		GradeID:   data.GradeID,
		ClassID:   data.ClassID,
		ParentID:  null.NewString(data.ParentID, data.ParentID != ""),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, s)
}

func (svc *Service) UpdateStudent(ctx context.Context, actor access.Actor, id string, data UpdateStudent) (Student, error) {
	if err := access.Authorize(actor, access.RecordStudent, access.OpUpdate, access.Target{TeacherID: actor.UserID}); err != nil {
		return Student{}, err
	}
	if err := data.Validate(); err != nil {
		return Student{}, err
	}
	orig, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	// capacity only matters when moving into another class
	if data.ClassID != orig.ClassID {
		if err := svc.checkClassCapacity(ctx, data.ClassID); err != nil {
			return Student{}, err
		}
	}

	if err := svc.updateAccount(ctx, id, data.UpdatePerson); err != nil {
		return Student{}, err
	}
	s := Student{
		ID:        id,
		Username:  data.Username,
		Name:      data.Name,
		Surname:   data.Surname,
		Email:     null.NewString(data.Email, data.Email != ""),
		Phone:     null.NewString(data.Phone, data.Phone != ""),
		Address:   data.Address,
		Img:       null.NewString(data.Img, data.Img != ""),
		BloodType: data.BloodType,
		Gender:    data.Gender,
		Birthday:  data.Birthday,
		GradeID:   data.GradeID,
		ClassID:   data.ClassID,
		ParentID:  null.NewString(data.ParentID, data.ParentID != ""),
	}
	return svc.repo.UpdateStudent(ctx, s)
}

func (svc *Service) DeleteStudent(ctx context.Context, actor access.Actor, id string) error {
	if err := access.Authorize(actor, access.RecordStudent, access.OpDelete, access.Target{TeacherID: actor.UserID}); err != nil {
		return err
	}
	if _, err := svc.repo.GetStudent(ctx, id); err != nil {
		return err
	}
	if err := svc.deleteAccount(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(ctx, id)
}

// Parent mutations (admin only)

func (svc *Service) CreateParent(ctx context.Context, actor access.Actor, data NewParent) (Parent, error) {
	if err := access.Authorize(actor, access.RecordParent, access.OpCreate, access.Target{}); err != nil {
		return Parent{}, err
	}
	if err := data.Validate(); err != nil {
		return Parent{}, err
	}

	acct, err := svc.createAccount(ctx, data.NewPerson, access.RoleParent)
	if err != nil {
		return Parent{}, err
	}
	p := Parent{
		ID:        acct.ID,
		Username:  data.Username,
		Name:      data.Name,
		Surname:   data.Surname,
		Email:     null.NewString(data.Email, data.Email != ""),
		Phone:     data.Phone,
		Address:   data.Address,
		CreatedAt: time.Now().UTC(),
	}
	p, err = svc.repo.CreateParent(ctx, p)
	if err != nil {
		return Parent{}, err
	}
	if len(data.StudentIDs) > 0 {
		if err = svc.repo.AssignParentStudents(ctx, p.ID, data.StudentIDs); err != nil {
			return Parent{}, err
		}
	}
	return p, nil
}

func (svc *Service) UpdateParent(ctx context.Context, actor access.Actor, id string, data UpdateParent) (Parent, error) {
	if err := access.Authorize(actor, access.RecordParent, access.OpUpdate, access.Target{TeacherID: actor.UserID}); err != nil {
		return Parent{}, err
	}
	if err := data.Validate(); err != nil {
		return Parent{}, err
	}
	if _, err := svc.repo.GetParent(ctx, id); err != nil {
		return Parent{}, err
	}

	if err := svc.updateAccount(ctx, id, data.UpdatePerson); err != nil {
		return Parent{}, err
	}
	// re-point child relationships: clear them all, then set the new list
	if err := svc.repo.ClearParentStudents(ctx, id); err != nil {
		return Parent{}, err
	}
	if len(data.StudentIDs) > 0 {
		if err := svc.repo.AssignParentStudents(ctx, id, data.StudentIDs); err != nil {
			return Parent{}, err
		}
	}
	p := Parent{
		ID:       id,
		Username: data.Username,
		Name:     data.Name,
		Surname:  data.Surname,
		Email:    null.NewString(data.Email, data.Email != ""),
		Phone:    data.Phone,
		Address:  data.Address,
	}
	return svc.repo.UpdateParent(ctx, p)
}

// DeleteParent runs the one ordered multi-step sequence in the app:
// (1) clear the children's parent_id, (2) delete the identity account,
// (3) delete the parent row. The steps are not atomic across the identity
// boundary. A failure after (1) leaves the children with a NULL parent_id
// and is not rolled back.
func (svc *Service) DeleteParent(ctx context.Context, actor access.Actor, id string) error {
	if err := access.Authorize(actor, access.RecordParent, access.OpDelete, access.Target{TeacherID: actor.UserID}); err != nil {
		return err
	}
	if _, err := svc.repo.GetParent(ctx, id); err != nil {
		return err
	}

	if err := svc.repo.ClearParentStudents(ctx, id); err != nil {
		return err
	}
	if err := svc.deleteAccount(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteParent(ctx, id)
}

// Subject / Class mutations (admin only)

func (svc *Service) CreateSubject(ctx context.Context, actor access.Actor, data NewSubject) (Subject, error) {
	if err := access.Authorize(actor, access.RecordSubject, access.OpCreate, access.Target{}); err != nil {
		return Subject{}, err
	}
	if err := data.Validate(); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(ctx, Subject{Name: data.Name}, data.TeacherIDs)
}

func (svc *Service) UpdateSubject(ctx context.Context, actor access.Actor, id int, data UpdateSubject) (Subject, error) {
	if err := access.Authorize(actor, access.RecordSubject, access.OpUpdate, access.Target{TeacherID: actor.UserID}); err != nil {
		return Subject{}, err
	}
	if err := data.Validate(); err != nil {
		return Subject{}, err
	}
	return svc.repo.UpdateSubject(ctx, Subject{ID: id, Name: data.Name}, data.TeacherIDs)
}

func (svc *Service) DeleteSubject(ctx context.Context, actor access.Actor, id int) error {
	if err := access.Authorize(actor, access.RecordSubject, access.OpDelete, access.Target{TeacherID: actor.UserID}); err != nil {
		return err
	}
	return svc.repo.DeleteSubject(ctx, id)
}

func (svc *Service) CreateClass(ctx context.Context, actor access.Actor, data NewClass) (Class, error) {
	if err := access.Authorize(actor, access.RecordClass, access.OpCreate, access.Target{}); err != nil {
		return Class{}, err
	}
	if err := data.Validate(); err != nil {
		return Class{}, err
	}
	c := Class{
		Name:         data.Name,
		Capacity:     data.Capacity,
		GradeID:      data.GradeID,
		SupervisorID: null.NewString(data.SupervisorID, data.SupervisorID != ""),
	}
	return svc.repo.CreateClass(ctx, c)
}

func (svc *Service) UpdateClass(ctx context.Context, actor access.Actor, id int, data UpdateClass) (Class, error) {
	if err := access.Authorize(actor, access.RecordClass, access.OpUpdate, access.Target{TeacherID: actor.UserID}); err != nil {
		return Class{}, err
	}
	if err := data.Validate(); err != nil {
		return Class{}, err
	}
	c := Class{
		ID:           id,
		Name:         data.Name,
		Capacity:     data.Capacity,
		GradeID:      data.GradeID,
		SupervisorID: null.NewString(data.SupervisorID, data.SupervisorID != ""),
	}
	return svc.repo.UpdateClass(ctx, c)
}

func (svc *Service) DeleteClass(ctx context.Context, actor access.Actor, id int) error {
	if err := access.Authorize(actor, access.RecordClass, access.OpDelete, access.Target{TeacherID: actor.UserID}); err != nil {
		return err
	}
	return svc.repo.DeleteClass(ctx, id)
}

// Lesson mutations (admin, or teacher on their own lessons)

func (svc *Service) CreateLesson(ctx context.Context, actor access.Actor, data NewLesson) (Lesson, error) {
	if err := access.Authorize(actor, access.RecordLesson, access.OpCreate, access.Target{}); err != nil {
		return Lesson{}, err
	}
	// ownership on create: non-admin callers get the owning FK forced to
	// themselves; a spoofed teacher_id in the payload is ignored
	if !actor.IsAdmin() {
		data.TeacherID = actor.UserID
	}
	if err := data.Validate(); err != nil {
		return Lesson{}, err
	}
	l := Lesson{
		Name:      data.Name,
		Day:       data.Day,
		StartTime: data.StartTime,
		EndTime:   data.EndTime,
		SubjectID: data.SubjectID,
		ClassID:   data.ClassID,
		TeacherID: data.TeacherID,
	}
	return svc.repo.CreateLesson(ctx, l)
}

func (svc *Service) UpdateLesson(ctx context.Context, actor access.Actor, id int, data UpdateLesson) (Lesson, error) {
	orig, err := svc.repo.GetLesson(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if err := access.Authorize(actor, access.RecordLesson, access.OpUpdate, access.Target{TeacherID: orig.TeacherID}); err != nil {
		return Lesson{}, err
	}
	if !actor.IsAdmin() {
		data.TeacherID = actor.UserID
	}
	if err := data.Validate(); err != nil {
		return Lesson{}, err
	}
	l := Lesson{
		ID:        id,
		Name:      data.Name,
		Day:       data.Day,
		StartTime: data.StartTime,
		EndTime:   data.EndTime,
		SubjectID: data.SubjectID,
		ClassID:   data.ClassID,
		TeacherID: data.TeacherID,
	}
	return svc.repo.UpdateLesson(ctx, l)
}

func (svc *Service) DeleteLesson(ctx context.Context, actor access.Actor, id int) error {
	orig, err := svc.repo.GetLesson(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.RecordLesson, access.OpDelete, access.Target{TeacherID: orig.TeacherID}); err != nil {
		return err
	}
	return svc.repo.DeleteLesson(ctx, id)
}

// lessonOwner resolves the owning teacher of a lesson for the gate.
func (svc *Service) lessonOwner(ctx context.Context, lessonID int) (access.Target, error) {
	l, err := svc.repo.GetLesson(ctx, lessonID)
	if err != nil {
		return access.Target{}, err
	}
	return access.Target{TeacherID: l.TeacherID}, nil
}

// Exam mutations

func (svc *Service) CreateExam(ctx context.Context, actor access.Actor, data NewExam) (Exam, error) {
	if err := access.Authorize(actor, access.RecordExam, access.OpCreate, access.Target{}); err != nil {
		return Exam{}, err
	}
	if err := data.Validate(); err != nil {
		return Exam{}, err
	}
	// a teacher may only attach the exam to their own lesson
	if !actor.IsAdmin() {
		tgt, err := svc.lessonOwner(ctx, data.LessonID)
		if err != nil {
			return Exam{}, err
		}
		if tgt.TeacherID != actor.UserID {
			return Exam{}, access.ErrNotOwner
		}
	}
	e := Exam{Title: data.Title, StartTime: data.StartTime, EndTime: data.EndTime, LessonID: data.LessonID}
	return svc.repo.CreateExam(ctx, e)
}

func (svc *Service) UpdateExam(ctx context.Context, actor access.Actor, id int, data UpdateExam) (Exam, error) {
	orig, err := svc.repo.GetExam(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	tgt, err := svc.lessonOwner(ctx, orig.LessonID)
	if err != nil {
		return Exam{}, err
	}
	if err := access.Authorize(actor, access.RecordExam, access.OpUpdate, tgt); err != nil {
		return Exam{}, err
	}
	if err := data.Validate(); err != nil {
		return Exam{}, err
	}
	if !actor.IsAdmin() && data.LessonID != orig.LessonID {
		newTgt, err := svc.lessonOwner(ctx, data.LessonID)
		if err != nil {
			return Exam{}, err
		}
		if newTgt.TeacherID != actor.UserID {
			return Exam{}, access.ErrNotOwner
		}
	}
	e := Exam{ID: id, Title: data.Title, StartTime: data.StartTime, EndTime: data.EndTime, LessonID: data.LessonID}
	return svc.repo.UpdateExam(ctx, e)
}

func (svc *Service) DeleteExam(ctx context.Context, actor access.Actor, id int) error {
	orig, err := svc.repo.GetExam(ctx, id)
	if err != nil {
		return err
	}
	tgt, err := svc.lessonOwner(ctx, orig.LessonID)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.RecordExam, access.OpDelete, tgt); err != nil {
		return err
	}
	return svc.repo.DeleteExam(ctx, id)
}

// Assignment mutations

func (svc *Service) CreateAssignment(ctx context.Context, actor access.Actor, data NewAssignment) (Assignment, error) {
	if err := access.Authorize(actor, access.RecordAssignment, access.OpCreate, access.Target{}); err != nil {
		return Assignment{}, err
	}
	if err := data.Validate(); err != nil {
		return Assignment{}, err
	}
	if !actor.IsAdmin() {
		tgt, err := svc.lessonOwner(ctx, data.LessonID)
		if err != nil {
			return Assignment{}, err
		}
		if tgt.TeacherID != actor.UserID {
			return Assignment{}, access.ErrNotOwner
		}
	}
	a := Assignment{Title: data.Title, StartDate: data.StartDate, DueDate: data.DueDate, LessonID: data.LessonID}
	return svc.repo.CreateAssignment(ctx, a)
}

func (svc *Service) UpdateAssignment(ctx context.Context, actor access.Actor, id int, data UpdateAssignment) (Assignment, error) {
	orig, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	tgt, err := svc.lessonOwner(ctx, orig.LessonID)
	if err != nil {
		return Assignment{}, err
	}
	if err := access.Authorize(actor, access.RecordAssignment, access.OpUpdate, tgt); err != nil {
		return Assignment{}, err
	}
	if err := data.Validate(); err != nil {
		return Assignment{}, err
	}
	if !actor.IsAdmin() && data.LessonID != orig.LessonID {
		newTgt, err := svc.lessonOwner(ctx, data.LessonID)
		if err != nil {
			return Assignment{}, err
		}
		if newTgt.TeacherID != actor.UserID {
			return Assignment{}, access.ErrNotOwner
		}
	}
	a := Assignment{ID: id, Title: data.Title, StartDate: data.StartDate, DueDate: data.DueDate, LessonID: data.LessonID}
	return svc.repo.UpdateAssignment(ctx, a)
}

func (svc *Service) DeleteAssignment(ctx context.Context, actor access.Actor, id int) error {
	orig, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	tgt, err := svc.lessonOwner(ctx, orig.LessonID)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.RecordAssignment, access.OpDelete, tgt); err != nil {
		return err
	}
	return svc.repo.DeleteAssignment(ctx, id)
}

// Result mutations

// resultOwner walks result -> exam|assignment -> lesson -> teacher.
func (svc *Service) resultOwner(ctx context.Context, examID, assignmentID int) (access.Target, error) {
	if examID != 0 {
		e, err := svc.repo.GetExam(ctx, examID)
		if err != nil {
			return access.Target{}, err
		}
		return svc.lessonOwner(ctx, e.LessonID)
	}
	a, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return access.Target{}, err
	}
	return svc.lessonOwner(ctx, a.LessonID)
}

func (svc *Service) CreateResult(ctx context.Context, actor access.Actor, data NewResult) (Result, error) {
	if err := access.Authorize(actor, access.RecordResult, access.OpCreate, access.Target{}); err != nil {
		return Result{}, err
	}
	if err := data.Validate(); err != nil {
		return Result{}, err
	}
	if !actor.IsAdmin() {
		tgt, err := svc.resultOwner(ctx, data.ExamID, data.AssignmentID)
		if err != nil {
			return Result{}, err
		}
		if tgt.TeacherID != actor.UserID {
			return Result{}, access.ErrNotOwner
		}
	}
	r := Result{
		Score:        data.Score,
		ExamID:       null.NewInt(data.ExamID, data.ExamID != 0),
		AssignmentID: null.NewInt(data.AssignmentID, data.AssignmentID != 0),
		StudentID:    data.StudentID,
	}
	return svc.repo.CreateResult(ctx, r)
}

func (svc *Service) UpdateResult(ctx context.Context, actor access.Actor, id int, data UpdateResult) (Result, error) {
	orig, err := svc.repo.GetResult(ctx, id)
	if err != nil {
		return Result{}, err
	}
	tgt, err := svc.resultOwner(ctx, orig.ExamID.Int, orig.AssignmentID.Int)
	if err != nil {
		return Result{}, err
	}
	if err := access.Authorize(actor, access.RecordResult, access.OpUpdate, tgt); err != nil {
		return Result{}, err
	}
	if err := data.Validate(); err != nil {
		return Result{}, err
	}
	if !actor.IsAdmin() && (data.ExamID != orig.ExamID.Int || data.AssignmentID != orig.AssignmentID.Int) {
		newTgt, err := svc.resultOwner(ctx, data.ExamID, data.AssignmentID)
		if err != nil {
			return Result{}, err
		}
		if newTgt.TeacherID != actor.UserID {
			return Result{}, access.ErrNotOwner
		}
	}
	r := Result{
		ID:           id,
		Score:        data.Score,
		ExamID:       null.NewInt(data.ExamID, data.ExamID != 0),
		AssignmentID: null.NewInt(data.AssignmentID, data.AssignmentID != 0),
		StudentID:    data.StudentID,
	}
	return svc.repo.UpdateResult(ctx, r)
}

func (svc *Service) DeleteResult(ctx context.Context, actor access.Actor, id int) error {
	orig, err := svc.repo.GetResult(ctx, id)
	if err != nil {
		return err
	}
	tgt, err := svc.resultOwner(ctx, orig.ExamID.Int, orig.AssignmentID.Int)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.RecordResult, access.OpDelete, tgt); err != nil {
		return err
	}
	return svc.repo.DeleteResult(ctx, id)
}

// Attendance mutations

func (svc *Service) CreateAttendance(ctx context.Context, actor access.Actor, data NewAttendance) (Attendance, error) {
	if err := access.Authorize(actor, access.RecordAttendance, access.OpCreate, access.Target{}); err != nil {
		return Attendance{}, err
	}
	if err := data.Validate(); err != nil {
		return Attendance{}, err
	}
	if !actor.IsAdmin() {
		tgt, err := svc.lessonOwner(ctx, data.LessonID)
		if err != nil {
			return Attendance{}, err
		}
		if tgt.TeacherID != actor.UserID {
			return Attendance{}, access.ErrNotOwner
		}
	}
	a := Attendance{Date: data.Date, Present: *data.Present, StudentID: data.StudentID, LessonID: data.LessonID}
	return svc.repo.CreateAttendance(ctx, a)
}

func (svc *Service) UpdateAttendance(ctx context.Context, actor access.Actor, id int, data UpdateAttendance) (Attendance, error) {
	orig, err := svc.repo.GetAttendance(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	tgt, err := svc.lessonOwner(ctx, orig.LessonID)
	if err != nil {
		return Attendance{}, err
	}
	if err := access.Authorize(actor, access.RecordAttendance, access.OpUpdate, tgt); err != nil {
		return Attendance{}, err
	}
	if err := data.Validate(); err != nil {
		return Attendance{}, err
	}
	if !actor.IsAdmin() && data.LessonID != orig.LessonID {
		newTgt, err := svc.lessonOwner(ctx, data.LessonID)
		if err != nil {
			return Attendance{}, err
		}
		if newTgt.TeacherID != actor.UserID {
			return Attendance{}, access.ErrNotOwner
		}
	}
	a := Attendance{ID: id, Date: data.Date, Present: *data.Present, StudentID: data.StudentID, LessonID: data.LessonID}
	return svc.repo.UpdateAttendance(ctx, a)
}

func (svc *Service) DeleteAttendance(ctx context.Context, actor access.Actor, id int) error {
	orig, err := svc.repo.GetAttendance(ctx, id)
	if err != nil {
		return err
	}
	tgt, err := svc.lessonOwner(ctx, orig.LessonID)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.RecordAttendance, access.OpDelete, tgt); err != nil {
		return err
	}
	return svc.repo.DeleteAttendance(ctx, id)
}

// Event / Announcement mutations (admin only) + parent notifications

func (svc *Service) notifyParents(ctx context.Context, classID null.Int, subject, body string) {
	emails, err := svc.repo.ParentEmails(ctx, classID)
	if err != nil {
		svc.log.Warn("fetching parent emails for notification", err)
		return
	}
	if len(emails) == 0 {
		return
	}
	msg := &core.EmailMessage{Subject: subject, BodyStr: body}
	for _, addr := range emails {
		msg.Bcc = append(msg.Bcc, mail.Address{Address: addr})
	}
	msg.To = []mail.Address{core.Conf.DefaultFromEmail}
	svc.mail.SendMessages(msg)
}

func (svc *Service) CreateEvent(ctx context.Context, actor access.Actor, data NewEvent) (Event, error) {
	if err := access.Authorize(actor, access.RecordEvent, access.OpCreate, access.Target{}); err != nil {
		return Event{}, err
	}
	if err := data.Validate(); err != nil {
		return Event{}, err
	}
	e := Event{
		Title:       data.Title,
		Description: data.Description,
		StartTime:   data.StartTime,
		EndTime:     data.EndTime,
		ClassID:     null.NewInt(data.ClassID, data.ClassID != 0),
	}
	e, err := svc.repo.CreateEvent(ctx, e)
	if err != nil {
		return Event{}, err
	}
	svc.notifyParents(ctx, e.ClassID, "New event: "+e.Title,
		fmt.Sprintf("%s\n\nStarts: %s", e.Description, e.StartTime.Format(time.RFC1123)))
	return e, nil
}

func (svc *Service) UpdateEvent(ctx context.Context, actor access.Actor, id int, data UpdateEvent) (Event, error) {
	if err := access.Authorize(actor, access.RecordEvent, access.OpUpdate, access.Target{TeacherID: actor.UserID}); err != nil {
		return Event{}, err
	}
	if err := data.Validate(); err != nil {
		return Event{}, err
	}
	e := Event{
		ID:          id,
		Title:       data.Title,
		Description: data.Description,
		StartTime:   data.StartTime,
		EndTime:     data.EndTime,
		ClassID:     null.NewInt(data.ClassID, data.ClassID != 0),
	}
	return svc.repo.UpdateEvent(ctx, e)
}

func (svc *Service) DeleteEvent(ctx context.Context, actor access.Actor, id int) error {
	if err := access.Authorize(actor, access.RecordEvent, access.OpDelete, access.Target{TeacherID: actor.UserID}); err != nil {
		return err
	}
	return svc.repo.DeleteEvent(ctx, id)
}

func (svc *Service) CreateAnnouncement(ctx context.Context, actor access.Actor, data NewAnnouncement) (Announcement, error) {
	if err := access.Authorize(actor, access.RecordAnnouncement, access.OpCreate, access.Target{}); err != nil {
		return Announcement{}, err
	}
	if err := data.Validate(); err != nil {
		return Announcement{}, err
	}
	a := Announcement{
		Title:       data.Title,
		Description: data.Description,
		Date:        data.Date,
		ClassID:     null.NewInt(data.ClassID, data.ClassID != 0),
	}
	a, err := svc.repo.CreateAnnouncement(ctx, a)
	if err != nil {
		return Announcement{}, err
	}
	svc.notifyParents(ctx, a.ClassID, "Announcement: "+a.Title, a.Description)
	return a, nil
}

func (svc *Service) UpdateAnnouncement(ctx context.Context, actor access.Actor, id int, data UpdateAnnouncement) (Announcement, error) {
	if err := access.Authorize(actor, access.RecordAnnouncement, access.OpUpdate, access.Target{TeacherID: actor.UserID}); err != nil {
		return Announcement{}, err
	}
	if err := data.Validate(); err != nil {
		return Announcement{}, err
	}
	a := Announcement{
		ID:          id,
		Title:       data.Title,
		Description: data.Description,
		Date:        data.Date,
		ClassID:     null.NewInt(data.ClassID, data.ClassID != 0),
	}
	return svc.repo.UpdateAnnouncement(ctx, a)
}

func (svc *Service) DeleteAnnouncement(ctx context.Context, actor access.Actor, id int) error {
	if err := access.Authorize(actor, access.RecordAnnouncement, access.OpDelete, access.Target{TeacherID: actor.UserID}); err != nil {
		return err
	}
	return svc.repo.DeleteAnnouncement(ctx, id)
}
