package school_test

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
	emailsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/email"
	identitysvc "github.com/vikasdeshmukh63/school-application-dashboard/services/identity"
	logsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/logger"
	inmemdb "github.com/vikasdeshmukh63/school-application-dashboard/storage/database/inmem"
)

var (
	admin   = access.Actor{Role: access.RoleAdmin, UserID: "adm1"}
	birthds = time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T) (*school.Service, *inmemdb.Repository, *identitysvc.ServiceMock) {
	t.Helper()
	emailsvc.ClearSentMessages()
	repo := inmemdb.NewRepository()
	idp := identitysvc.NewServiceMock()
	logger := logsvc.NewStdLogger(log.New(os.Stderr, "TEST : ", log.LstdFlags))
	svc := school.NewService(repo, idp, emailsvc.NewConsoleServiceMock(), logger)
	return svc, repo, idp
}

func newTeacherPayload(username string) school.NewTeacher {
	return school.NewTeacher{
		NewPerson: school.NewPerson{
			Username: username,
			Password: "Sup3r.Tr0ng#pwd",
			Name:     "Alice",
			Surname:  "Mwangi",
			Email:    username + "@school.test",
			Address:  "12 Hill Rd",
		},
		BloodType: "A+",
		Gender:    school.GenderFemale,
		Birthday:  birthds,
	}
}

func newStudentPayload(username string, classID int) school.NewStudent {
	return school.NewStudent{
		NewPerson: school.NewPerson{
			Username: username,
			Password: "Sup3r.Tr0ng#pwd",
			Name:     "Brian",
			Surname:  "Otieno",
			Address:  "3 Lake View",
		},
		BloodType: "O-",
		Gender:    school.GenderMale,
		Birthday:  time.Date(2012, 2, 1, 0, 0, 0, 0, time.UTC),
		GradeID:   1,
		ClassID:   classID,
	}
}

func seedClass(t *testing.T, svc *school.Service, name string, capacity int) school.Class {
	t.Helper()
	cls, err := svc.CreateClass(context.Background(), admin, school.NewClass{
		Name: name, Capacity: capacity, GradeID: 1,
	})
	require.NoError(t, err)
	return cls
}

func seedTeacher(t *testing.T, svc *school.Service, username string) school.Teacher {
	t.Helper()
	teacher, err := svc.CreateTeacher(context.Background(), admin, newTeacherPayload(username))
	require.NoError(t, err)
	return teacher
}

func seedLesson(t *testing.T, svc *school.Service, teacherID string, classID int) school.Lesson {
	t.Helper()
	ctx := context.Background()
	subject, err := svc.CreateSubject(ctx, admin, school.NewSubject{Name: "Maths " + teacherID})
	require.NoError(t, err)
	lesson, err := svc.CreateLesson(ctx, admin, school.NewLesson{
		Name:      "Algebra",
		Day:       school.DayMonday,
		StartTime: time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		SubjectID: subject.ID,
		ClassID:   classID,
		TeacherID: teacherID,
	})
	require.NoError(t, err)
	return lesson
}

func TestPeopleMutationsAreAdminOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, actor := range []access.Actor{
		{Role: access.RoleTeacher, UserID: "t1"},
		{Role: access.RoleStudent, UserID: "s1"},
		{Role: access.RoleParent, UserID: "p1"},
	} {
		_, err := svc.CreateTeacher(ctx, actor, newTeacherPayload("mteach"))
		assert.ErrorIs(t, err, access.ErrPermissionDenied, "%s create teacher", actor.Role)

		err = svc.DeleteParent(ctx, actor, "p1")
		assert.ErrorIs(t, err, access.ErrPermissionDenied, "%s delete parent", actor.Role)

		_, err = svc.CreateClass(ctx, actor, school.NewClass{Name: "1A", Capacity: 10, GradeID: 1})
		assert.ErrorIs(t, err, access.ErrPermissionDenied, "%s create class", actor.Role)
	}
}

func TestCreateTeacherProvisionsIdentityFirst(t *testing.T) {
	svc, repo, idp := newTestService(t)
	ctx := context.Background()

	teacher, err := svc.CreateTeacher(ctx, admin, newTeacherPayload("amwangi"))
	require.NoError(t, err)

	// row is keyed by the provider's account ID
	assert.True(t, strings.HasPrefix(teacher.ID, "user_"))
	assert.True(t, idp.HasAccount(teacher.ID))

	got, err := repo.GetTeacher(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, "amwangi", got.Username)
}

func TestCreateTeacherIdentityFailureWritesNothing(t *testing.T) {
	svc, repo, idp := newTestService(t)
	ctx := context.Background()

	idp.FailNext = true
	_, err := svc.CreateTeacher(ctx, admin, newTeacherPayload("amwangi"))
	require.ErrorIs(t, err, school.ErrIdentityProvider)

	teachers, total, err := repo.ListTeachers(ctx, nil, school.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, teachers)
	assert.Zero(t, total)
}

func TestClassCapacity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	full := seedClass(t, svc, "1A", 1)
	open := seedClass(t, svc, "1B", 2)

	_, err := svc.CreateStudent(ctx, admin, newStudentPayload("botieno", full.ID))
	require.NoError(t, err)

	t.Run("create into a full class is rejected", func(t *testing.T) {
		_, err := svc.CreateStudent(ctx, admin, newStudentPayload("cotieno", full.ID))
		assert.ErrorIs(t, err, access.ErrCapacityExceeded)
	})

	t.Run("update within the same class skips the check", func(t *testing.T) {
		student, err := svc.CreateStudent(ctx, admin, newStudentPayload("dotieno", open.ID))
		require.NoError(t, err)

		upd := school.UpdateStudent{
			UpdatePerson: school.UpdatePerson{
				Username: "dotieno", Name: "Brian", Surname: "Otieno", Address: "3 Lake View",
			},
			BloodType: "O-",
			Gender:    school.GenderMale,
			Birthday:  time.Date(2012, 2, 1, 0, 0, 0, 0, time.UTC),
			GradeID:   1,
			ClassID:   open.ID,
		}
		_, err = svc.UpdateStudent(ctx, admin, student.ID, upd)
		assert.NoError(t, err)

		// moving into the full class is rejected
		upd.ClassID = full.ID
		_, err = svc.UpdateStudent(ctx, admin, student.ID, upd)
		assert.ErrorIs(t, err, access.ErrCapacityExceeded)
	})
}

func TestParentDeletionOrdering(t *testing.T) {
	svc, repo, idp := newTestService(t)
	ctx := context.Background()

	cls := seedClass(t, svc, "2A", 10)
	parent, err := svc.CreateParent(ctx, admin, school.NewParent{
		NewPerson: school.NewPerson{
			Username: "pmum", Password: "Sup3r.Tr0ng#pwd", Name: "Grace", Surname: "Otieno",
			Phone: "+254700000001", Address: "3 Lake View",
		},
	})
	require.NoError(t, err)

	payload := newStudentPayload("kid1", cls.ID)
	payload.ParentID = parent.ID
	student, err := svc.CreateStudent(ctx, admin, payload)
	require.NoError(t, err)

	t.Run("happy path clears children, then account, then row", func(t *testing.T) {
		require.NoError(t, svc.DeleteParent(ctx, admin, parent.ID))

		got, err := repo.GetStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.False(t, got.ParentID.Valid, "child must be orphaned, not deleted")

		assert.False(t, idp.HasAccount(parent.ID))
		_, err = repo.GetParent(ctx, parent.ID)
		assert.ErrorIs(t, err, school.ErrNotFound)
	})

	t.Run("identity failure keeps the parent row", func(t *testing.T) {
		parent2, err := svc.CreateParent(ctx, admin, school.NewParent{
			NewPerson: school.NewPerson{
				Username: "pdad", Password: "Sup3r.Tr0ng#pwd", Name: "John", Surname: "Otieno",
				Phone: "+254700000002", Address: "3 Lake View",
			},
			StudentIDs: []string{student.ID},
		})
		require.NoError(t, err)

		idp.FailNext = true
		err = svc.DeleteParent(ctx, admin, parent2.ID)
		require.ErrorIs(t, err, school.ErrIdentityProvider)

		// step 1 already ran: children are cleared; the row survives so the
		// deletion can be retried
		got, err := repo.GetStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.False(t, got.ParentID.Valid)
		_, err = repo.GetParent(ctx, parent2.ID)
		assert.NoError(t, err)
	})
}

func TestTeacherLessonOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cls := seedClass(t, svc, "3A", 10)
	owner := seedTeacher(t, svc, "towner")
	other := seedTeacher(t, svc, "tother")
	ownerActor := access.Actor{Role: access.RoleTeacher, UserID: owner.ID}

	subject, err := svc.CreateSubject(ctx, admin, school.NewSubject{Name: "Physics"})
	require.NoError(t, err)

	t.Run("create forces the owning FK to the caller", func(t *testing.T) {
		lesson, err := svc.CreateLesson(ctx, ownerActor, school.NewLesson{
			Name:      "Mechanics",
			Day:       school.DayTuesday,
			StartTime: time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC),
			SubjectID: subject.ID,
			ClassID:   cls.ID,
			TeacherID: other.ID, // spoofed; must be ignored
		})
		require.NoError(t, err)
		assert.Equal(t, owner.ID, lesson.TeacherID)
	})

	t.Run("update and delete require ownership", func(t *testing.T) {
		lesson := seedLesson(t, svc, other.ID, cls.ID)

		err := svc.DeleteLesson(ctx, ownerActor, lesson.ID)
		assert.ErrorIs(t, err, access.ErrNotOwner)

		err = svc.DeleteLesson(ctx, access.Actor{Role: access.RoleTeacher, UserID: other.ID}, lesson.ID)
		assert.NoError(t, err)
	})
}

func TestExamOwnershipViaLesson(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cls := seedClass(t, svc, "4A", 10)
	owner := seedTeacher(t, svc, "eowner")
	other := seedTeacher(t, svc, "eother")
	ownLesson := seedLesson(t, svc, owner.ID, cls.ID)
	otherLesson := seedLesson(t, svc, other.ID, cls.ID)
	ownerActor := access.Actor{Role: access.RoleTeacher, UserID: owner.ID}

	newExam := func(lessonID int) school.NewExam {
		return school.NewExam{
			Title:     "Midterm",
			StartTime: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
			LessonID:  lessonID,
		}
	}

	t.Run("attaching to someone else's lesson is denied", func(t *testing.T) {
		_, err := svc.CreateExam(ctx, ownerActor, newExam(otherLesson.ID))
		assert.ErrorIs(t, err, access.ErrNotOwner)
	})

	t.Run("own lesson is fine, admin is unrestricted", func(t *testing.T) {
		exam, err := svc.CreateExam(ctx, ownerActor, newExam(ownLesson.ID))
		require.NoError(t, err)

		// the other teacher cannot touch it
		err = svc.DeleteExam(ctx, access.Actor{Role: access.RoleTeacher, UserID: other.ID}, exam.ID)
		assert.ErrorIs(t, err, access.ErrNotOwner)

		_, err = svc.CreateExam(ctx, admin, newExam(otherLesson.ID))
		assert.NoError(t, err)
	})
}

func TestResultExactlyOneTarget(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cls := seedClass(t, svc, "5A", 10)
	student, err := svc.CreateStudent(ctx, admin, newStudentPayload("rkid", cls.ID))
	require.NoError(t, err)

	_, err = svc.CreateResult(ctx, admin, school.NewResult{
		Score: 80, StudentID: student.ID,
	})
	assert.Error(t, err, "neither exam nor assignment")

	_, err = svc.CreateResult(ctx, admin, school.NewResult{
		Score: 80, ExamID: 1, AssignmentID: 2, StudentID: student.ID,
	})
	assert.Error(t, err, "both exam and assignment")
}

// Updates that re-point a record at another teacher's chain must verify the
// incoming chain, not just the original one.
func TestUpdateCannotReparentAcrossTeachers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cls := seedClass(t, svc, "6A", 10)
	owner := seedTeacher(t, svc, "rowner")
	other := seedTeacher(t, svc, "rother")
	ownLesson := seedLesson(t, svc, owner.ID, cls.ID)
	otherLesson := seedLesson(t, svc, other.ID, cls.ID)
	ownerActor := access.Actor{Role: access.RoleTeacher, UserID: owner.ID}

	student, err := svc.CreateStudent(ctx, admin, newStudentPayload("rpkid", cls.ID))
	require.NoError(t, err)

	ownExam, err := svc.CreateExam(ctx, admin, school.NewExam{
		Title:     "Term 1",
		StartTime: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		LessonID:  ownLesson.ID,
	})
	require.NoError(t, err)
	otherExam, err := svc.CreateExam(ctx, admin, school.NewExam{
		Title:     "Term 1",
		StartTime: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		LessonID:  otherLesson.ID,
	})
	require.NoError(t, err)

	t.Run("result", func(t *testing.T) {
		res, err := svc.CreateResult(ctx, ownerActor, school.NewResult{
			Score: 70, ExamID: ownExam.ID, StudentID: student.ID,
		})
		require.NoError(t, err)

		_, err = svc.UpdateResult(ctx, ownerActor, res.ID, school.UpdateResult{
			Score: 75, ExamID: otherExam.ID, StudentID: student.ID,
		})
		assert.ErrorIs(t, err, access.ErrNotOwner)

		// admin can re-point freely
		_, err = svc.UpdateResult(ctx, admin, res.ID, school.UpdateResult{
			Score: 75, ExamID: otherExam.ID, StudentID: student.ID,
		})
		assert.NoError(t, err)
	})

	t.Run("attendance", func(t *testing.T) {
		present := true
		att, err := svc.CreateAttendance(ctx, ownerActor, school.NewAttendance{
			Date: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), Present: &present,
			StudentID: student.ID, LessonID: ownLesson.ID,
		})
		require.NoError(t, err)

		_, err = svc.UpdateAttendance(ctx, ownerActor, att.ID, school.UpdateAttendance{
			Date: att.Date, Present: &present,
			StudentID: student.ID, LessonID: otherLesson.ID,
		})
		assert.ErrorIs(t, err, access.ErrNotOwner)
	})
}

func TestListFailClosed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cls := seedClass(t, svc, "6A", 10)
	_, err := svc.CreateStudent(ctx, admin, newStudentPayload("lkid", cls.ID))
	require.NoError(t, err)

	t.Run("unknown role", func(t *testing.T) {
		rows, total, err := svc.ListStudents(ctx, access.Actor{Role: "intruder", UserID: "x"}, school.StudentFilter{}, 1)
		assert.ErrorIs(t, err, access.ErrUnknownRole)
		assert.Empty(t, rows)
		assert.Zero(t, total)
	})

	t.Run("missing identity", func(t *testing.T) {
		rows, total, err := svc.ListStudents(ctx, access.Actor{Role: access.RoleStudent}, school.StudentFilter{}, 1)
		assert.ErrorIs(t, err, access.ErrMissingIdentity)
		assert.Empty(t, rows)
		assert.Zero(t, total)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		rows, total, err := svc.ListStudents(ctx, admin, school.StudentFilter{}, 1)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, 1, total)
	})
}

func TestAnnouncementNotifiesClassParents(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cls := seedClass(t, svc, "7A", 10)
	parent, err := svc.CreateParent(ctx, admin, school.NewParent{
		NewPerson: school.NewPerson{
			Username: "npar", Password: "Sup3r.Tr0ng#pwd", Name: "Nadia", Surname: "Kone",
			Email: "nadia@family.test", Phone: "+254700000009", Address: "8 Garden Est",
		},
	})
	require.NoError(t, err)
	payload := newStudentPayload("nkid", cls.ID)
	payload.ParentID = parent.ID
	_, err = svc.CreateStudent(ctx, admin, payload)
	require.NoError(t, err)

	emailsvc.ClearSentMessages()
	_, err = svc.CreateAnnouncement(ctx, admin, school.NewAnnouncement{
		Title:       "PTA meeting",
		Description: "Friday at 5pm in the main hall.",
		Date:        time.Date(2026, 9, 11, 17, 0, 0, 0, time.UTC),
		ClassID:     cls.ID,
	})
	require.NoError(t, err)

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	require.Len(t, msg.Bcc, 1)
	assert.Equal(t, "nadia@family.test", msg.Bcc[0].Address)
	assert.Contains(t, msg.Subject, "PTA meeting")
}
