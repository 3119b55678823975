package school

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
)

// Gender values
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Lesson days
const (
	DayMonday    = "MONDAY"
	DayTuesday   = "TUESDAY"
	DayWednesday = "WEDNESDAY"
	DayThursday  = "THURSDAY"
	DayFriday    = "FRIDAY"
)

type (
	// Teacher's ID is the identity-provider account ID.
	Teacher struct {
		ID        string      `json:"id" db:"id"`
		Username  string      `json:"username" db:"username"`
		Name      string      `json:"name" db:"name"`
		Surname   string      `json:"surname" db:"surname"`
		Email     null.String `json:"email" db:"email"`
		Phone     null.String `json:"phone" db:"phone"`
		Address   string      `json:"address" db:"address"`
		Img       null.String `json:"img" db:"img"`
		BloodType string      `json:"blood_type" db:"blood_type"`
		Gender    string      `json:"gender" db:"gender"`
		Birthday  time.Time   `json:"birthday" db:"birthday"`
		CreatedAt time.Time   `json:"created_at" db:"created_at"`

		// display-only, populated by list queries
		Subjects null.String `json:"subjects,omitempty" db:"subjects"`
	}

	Student struct {
		ID        string      `json:"id" db:"id"`
		Username  string      `json:"username" db:"username"`
		Name      string      `json:"name" db:"name"`
		Surname   string      `json:"surname" db:"surname"`
		Email     null.String `json:"email" db:"email"`
		Phone     null.String `json:"phone" db:"phone"`
		Address   string      `json:"address" db:"address"`
		Img       null.String `json:"img" db:"img"`
		BloodType string      `json:"blood_type" db:"blood_type"`
		Gender    string      `json:"gender" db:"gender"`
		Birthday  time.Time   `json:"birthday" db:"birthday"`
		GradeID   int         `json:"grade_id" db:"grade_id"`
		ClassID   int         `json:"class_id" db:"class_id"`
		// nullable: cleared when the parent is deleted
		ParentID  null.String `json:"parent_id" db:"parent_id"`
		CreatedAt time.Time   `json:"created_at" db:"created_at"`

		ClassName null.String `json:"class_name,omitempty" db:"class_name"`
	}

	Parent struct {
		ID        string      `json:"id" db:"id"`
		Username  string      `json:"username" db:"username"`
		Name      string      `json:"name" db:"name"`
		Surname   string      `json:"surname" db:"surname"`
		Email     null.String `json:"email" db:"email"`
		Phone     string      `json:"phone" db:"phone"`
		Address   string      `json:"address" db:"address"`
		CreatedAt time.Time   `json:"created_at" db:"created_at"`
	}

	Subject struct {
		ID   int    `json:"id" db:"id"`
		Name string `json:"name" db:"name"`

		Teachers null.String `json:"teachers,omitempty" db:"teachers"`
	}

	Class struct {
		ID           int         `json:"id" db:"id"`
		Name         string      `json:"name" db:"name"`
		Capacity     int         `json:"capacity" db:"capacity"`
		GradeID      int         `json:"grade_id" db:"grade_id"`
		SupervisorID null.String `json:"supervisor_id" db:"supervisor_id"`

		SupervisorName null.String `json:"supervisor_name,omitempty" db:"supervisor_name"`
	}

	Grade struct {
		ID    int `json:"id" db:"id"`
		Level int `json:"level" db:"level"`
	}

	Lesson struct {
		ID        int       `json:"id" db:"id"`
		Name      string    `json:"name" db:"name"`
		Day       string    `json:"day" db:"day"`
		StartTime time.Time `json:"start_time" db:"start_time"`
		EndTime   time.Time `json:"end_time" db:"end_time"`
		SubjectID int       `json:"subject_id" db:"subject_id"`
		ClassID   int       `json:"class_id" db:"class_id"`
		TeacherID string    `json:"teacher_id" db:"teacher_id"`

		SubjectName null.String `json:"subject_name,omitempty" db:"subject_name"`
		ClassName   null.String `json:"class_name,omitempty" db:"class_name"`
		TeacherName null.String `json:"teacher_name,omitempty" db:"teacher_name"`
	}

	Exam struct {
		ID        int       `json:"id" db:"id"`
		Title     string    `json:"title" db:"title"`
		StartTime time.Time `json:"start_time" db:"start_time"`
		EndTime   time.Time `json:"end_time" db:"end_time"`
		LessonID  int       `json:"lesson_id" db:"lesson_id"`

		SubjectName null.String `json:"subject_name,omitempty" db:"subject_name"`
		ClassName   null.String `json:"class_name,omitempty" db:"class_name"`
		TeacherName null.String `json:"teacher_name,omitempty" db:"teacher_name"`
	}

	Assignment struct {
		ID        int       `json:"id" db:"id"`
		Title     string    `json:"title" db:"title"`
		StartDate time.Time `json:"start_date" db:"start_date"`
		DueDate   time.Time `json:"due_date" db:"due_date"`
		LessonID  int       `json:"lesson_id" db:"lesson_id"`

		SubjectName null.String `json:"subject_name,omitempty" db:"subject_name"`
		ClassName   null.String `json:"class_name,omitempty" db:"class_name"`
		TeacherName null.String `json:"teacher_name,omitempty" db:"teacher_name"`
	}

	// Result scores either an exam or an assignment, never both.
	Result struct {
		ID           int      `json:"id" db:"id"`
		Score        int      `json:"score" db:"score"`
		ExamID       null.Int `json:"exam_id" db:"exam_id"`
		AssignmentID null.Int `json:"assignment_id" db:"assignment_id"`
		StudentID    string   `json:"student_id" db:"student_id"`

		Title       null.String `json:"title,omitempty" db:"title"`
		StudentName null.String `json:"student_name,omitempty" db:"student_name"`
		TeacherName null.String `json:"teacher_name,omitempty" db:"teacher_name"`
		ClassName   null.String `json:"class_name,omitempty" db:"class_name"`
	}

	Attendance struct {
		ID        int       `json:"id" db:"id"`
		Date      time.Time `json:"date" db:"date"`
		Present   bool      `json:"present" db:"present"`
		StudentID string    `json:"student_id" db:"student_id"`
		LessonID  int       `json:"lesson_id" db:"lesson_id"`
	}

	// Event with a NULL ClassID is global: visible to every role.
	Event struct {
		ID          int       `json:"id" db:"id"`
		Title       string    `json:"title" db:"title"`
		Description string    `json:"description" db:"description"`
		StartTime   time.Time `json:"start_time" db:"start_time"`
		EndTime     time.Time `json:"end_time" db:"end_time"`
		ClassID     null.Int  `json:"class_id" db:"class_id"`

		ClassName null.String `json:"class_name,omitempty" db:"class_name"`
	}

	// Announcement scoping works like Event's.
	Announcement struct {
		ID          int       `json:"id" db:"id"`
		Title       string    `json:"title" db:"title"`
		Description string    `json:"description" db:"description"`
		Date        time.Time `json:"date" db:"date"`
		ClassID     null.Int  `json:"class_id" db:"class_id"`

		ClassName null.String `json:"class_name,omitempty" db:"class_name"`
	}
)

// Payloads. People payloads carry the identity-provider credentials; the
// password never touches the store.

type (
	NewPerson struct {
		Username string `json:"username" validate:"required,min=3,alphanum_"`
		Password string `json:"password" validate:"required"`
		Name     string `json:"name" validate:"required"`
		Surname  string `json:"surname" validate:"required"`
		Email    string `json:"email" validate:"omitempty,email"`
		Phone    string `json:"phone"`
		Address  string `json:"address" validate:"required"`
	}

	UpdatePerson struct {
		Username string `json:"username" validate:"required,min=3,alphanum_"`
		Password string `json:"password"` // unchanged when empty
		Name     string `json:"name" validate:"required"`
		Surname  string `json:"surname" validate:"required"`
		Email    string `json:"email" validate:"omitempty,email"`
		Phone    string `json:"phone"`
		Address  string `json:"address" validate:"required"`
	}

	NewTeacher struct {
		NewPerson
		Img        string    `json:"img"`
		BloodType  string    `json:"blood_type" validate:"required"`
		Gender     string    `json:"gender" validate:"required,gender"`
		Birthday   time.Time `json:"birthday" validate:"required"`
		SubjectIDs []int     `json:"subject_ids"`
	}

	UpdateTeacher struct {
		UpdatePerson
		Img        string    `json:"img"`
		BloodType  string    `json:"blood_type" validate:"required"`
		Gender     string    `json:"gender" validate:"required,gender"`
		Birthday   time.Time `json:"birthday" validate:"required"`
		SubjectIDs []int     `json:"subject_ids"`
	}

	NewStudent struct {
		NewPerson
		Img       string    `json:"img"`
		BloodType string    `json:"blood_type" validate:"required"`
		Gender    string    `json:"gender" validate:"required,gender"`
		Birthday  time.Time `json:"birthday" validate:"required"`
		GradeID   int       `json:"grade_id" validate:"required"`
		ClassID   int       `json:"class_id" validate:"required"`
		ParentID  string    `json:"parent_id"`
	}

	UpdateStudent struct {
		UpdatePerson
		Img       string    `json:"img"`
		BloodType string    `json:"blood_type" validate:"required"`
		Gender    string    `json:"gender" validate:"required,gender"`
		Birthday  time.Time `json:"birthday" validate:"required"`
		GradeID   int       `json:"grade_id" validate:"required"`
		ClassID   int       `json:"class_id" validate:"required"`
		ParentID  string    `json:"parent_id"`
	}

	NewParent struct {
		NewPerson
		StudentIDs []string `json:"student_ids"`
	}

	UpdateParent struct {
		UpdatePerson
		StudentIDs []string `json:"student_ids"`
	}

	NewSubject struct {
		Name       string   `json:"name" validate:"required"`
		TeacherIDs []string `json:"teacher_ids"`
	}

	UpdateSubject = NewSubject

	NewClass struct {
		Name         string `json:"name" validate:"required"`
		Capacity     int    `json:"capacity" validate:"required,gt=0"`
		GradeID      int    `json:"grade_id" validate:"required"`
		SupervisorID string `json:"supervisor_id"`
	}

	UpdateClass = NewClass

	NewLesson struct {
		Name      string    `json:"name" validate:"required"`
		Day       string    `json:"day" validate:"required,weekday"`
		StartTime time.Time `json:"start_time" validate:"required"`
		EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
		SubjectID int       `json:"subject_id" validate:"required"`
		ClassID   int       `json:"class_id" validate:"required"`
		TeacherID string    `json:"teacher_id" validate:"required"`
	}

	UpdateLesson = NewLesson

	NewExam struct {
		Title     string    `json:"title" validate:"required"`
		StartTime time.Time `json:"start_time" validate:"required"`
		EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
		LessonID  int       `json:"lesson_id" validate:"required"`
	}

	UpdateExam = NewExam

	NewAssignment struct {
		Title     string    `json:"title" validate:"required"`
		StartDate time.Time `json:"start_date" validate:"required"`
		DueDate   time.Time `json:"due_date" validate:"required,gtfield=StartDate"`
		LessonID  int       `json:"lesson_id" validate:"required"`
	}

	UpdateAssignment = NewAssignment

	NewResult struct {
		Score        int    `json:"score" validate:"gte=0"`
		ExamID       int    `json:"exam_id"`
		AssignmentID int    `json:"assignment_id"`
		StudentID    string `json:"student_id" validate:"required"`
	}

	UpdateResult = NewResult

	NewAttendance struct {
		Date      time.Time `json:"date" validate:"required"`
		Present   *bool     `json:"present" validate:"required"`
		StudentID string    `json:"student_id" validate:"required"`
		LessonID  int       `json:"lesson_id" validate:"required"`
	}

	UpdateAttendance = NewAttendance

	NewEvent struct {
		Title       string    `json:"title" validate:"required"`
		Description string    `json:"description" validate:"required"`
		StartTime   time.Time `json:"start_time" validate:"required"`
		EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
		ClassID     int       `json:"class_id"` // 0 = global
	}

	UpdateEvent = NewEvent

	NewAnnouncement struct {
		Title       string    `json:"title" validate:"required"`
		Description string    `json:"description" validate:"required"`
		Date        time.Time `json:"date" validate:"required"`
		ClassID     int       `json:"class_id"` // 0 = global
	}

	UpdateAnnouncement = NewAnnouncement
)

func (p *NewPerson) clean() {
	p.Username = core.CleanString(p.Username, true /* lower */)
	p.Name = core.CleanString(p.Name)
	p.Surname = core.CleanString(p.Surname)
	p.Email = core.CleanString(p.Email, true /* lower */)
	p.Phone = core.CleanString(p.Phone)
	p.Address = core.CleanString(p.Address)
}

func (p *UpdatePerson) clean() {
	p.Username = core.CleanString(p.Username, true /* lower */)
	p.Name = core.CleanString(p.Name)
	p.Surname = core.CleanString(p.Surname)
	p.Email = core.CleanString(p.Email, true /* lower */)
	p.Phone = core.CleanString(p.Phone)
	p.Address = core.CleanString(p.Address)
}

func (nt *NewTeacher) Validate() error {
	nt.clean()
	return core.Validate.Struct(nt)
}

func (ut *UpdateTeacher) Validate() error {
	ut.clean()
	return core.Validate.Struct(ut)
}

func (ns *NewStudent) Validate() error {
	ns.clean()
	return core.Validate.Struct(ns)
}

func (us *UpdateStudent) Validate() error {
	us.clean()
	return core.Validate.Struct(us)
}

func (np *NewParent) Validate() error {
	np.clean()
	return core.Validate.Struct(np)
}

func (up *UpdateParent) Validate() error {
	up.clean()
	return core.Validate.Struct(up)
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

func (nl *NewLesson) Validate() error {
	nl.Name = core.CleanString(nl.Name)
	return core.Validate.Struct(nl)
}

func (ne *NewExam) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	return core.Validate.Struct(ne)
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	return core.Validate.Struct(na)
}

func (nr *NewResult) Validate() error {
	if err := core.Validate.Struct(nr); err != nil {
		return err
	}
	// exactly one of exam/assignment
	if (nr.ExamID == 0) == (nr.AssignmentID == 0) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "exam_id", Error: "exactly one of exam_id or assignment_id is required",
		})
	}
	return nil
}

func (na *NewAttendance) Validate() error {
	return core.Validate.Struct(na)
}

func (ne *NewEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	return core.Validate.Struct(ne)
}

func (na *NewAnnouncement) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return core.Validate.Struct(na)
}
