package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

var seedActor = access.Actor{Role: access.RoleAdmin, UserID: "seed"}

// seed loads a demo dataset through the same gated service paths the API
// uses, so every row passes validation and the access checks.
func (cli *commandLine) seed(ctx context.Context) error {
	svc := cli.schoolSvc
	now := time.Now().UTC()

	gender := func(i int) string {
		if i%2 == 0 {
			return school.GenderFemale
		}
		return school.GenderMale
	}
	days := []string{school.DayMonday, school.DayTuesday, school.DayWednesday, school.DayThursday, school.DayFriday}

	// teachers
	teachers := make([]school.Teacher, 0, 15)
	for i := 1; i <= 15; i++ {
		t, err := svc.CreateTeacher(ctx, seedActor, school.NewTeacher{
			NewPerson: school.NewPerson{
				Username: fmt.Sprintf("teacher%d", i),
				Password: fmt.Sprintf("Sch0ol.Demo#%02d", i),
				Name:     fmt.Sprintf("TName%d", i),
				Surname:  fmt.Sprintf("TSurname%d", i),
				Email:    fmt.Sprintf("teacher%d@example.com", i),
				Phone:    fmt.Sprintf("123-456-78%02d", i),
				Address:  fmt.Sprintf("Address%d", i),
			},
			BloodType: "A+",
			Gender:    gender(i),
			Birthday:  now.AddDate(-30, 0, i),
		})
		if err != nil {
			return fmt.Errorf("seeding teacher %d: %w", i, err)
		}
		teachers = append(teachers, t)
	}

	// subjects, each taught by one of the teachers
	subjectNames := []string{
		"Mathematics", "Science", "English", "History", "Geography",
		"Physics", "Chemistry", "Biology", "Computer Science", "Art",
	}
	subjects := make([]school.Subject, 0, len(subjectNames))
	for i, name := range subjectNames {
		s, err := svc.CreateSubject(ctx, seedActor, school.NewSubject{
			Name:       name,
			TeacherIDs: []string{teachers[i%len(teachers)].ID},
		})
		if err != nil {
			return fmt.Errorf("seeding subject %q: %w", name, err)
		}
		subjects = append(subjects, s)
	}

	// one class per grade; grades 1..6 ship with the migrations
	classes := make([]school.Class, 0, 6)
	for i := 1; i <= 6; i++ {
		c, err := svc.CreateClass(ctx, seedActor, school.NewClass{
			Name:         fmt.Sprintf("%dA", i),
			Capacity:     20,
			GradeID:      i,
			SupervisorID: teachers[i-1].ID,
		})
		if err != nil {
			return fmt.Errorf("seeding class %dA: %w", i, err)
		}
		classes = append(classes, c)
	}

	// parents
	parents := make([]school.Parent, 0, 25)
	for i := 1; i <= 25; i++ {
		p, err := svc.CreateParent(ctx, seedActor, school.NewParent{
			NewPerson: school.NewPerson{
				Username: fmt.Sprintf("parent%d", i),
				Password: fmt.Sprintf("Sch0ol.Demo#%02d", i),
				Name:     fmt.Sprintf("PName%d", i),
				Surname:  fmt.Sprintf("PSurname%d", i),
				Email:    fmt.Sprintf("parent%d@example.com", i),
				Phone:    fmt.Sprintf("123-456-79%02d", i),
				Address:  fmt.Sprintf("Address%d", i),
			},
		})
		if err != nil {
			return fmt.Errorf("seeding parent %d: %w", i, err)
		}
		parents = append(parents, p)
	}

	// students, two per parent
	students := make([]school.Student, 0, 50)
	for i := 1; i <= 50; i++ {
		cls := classes[(i-1)%len(classes)]
		s, err := svc.CreateStudent(ctx, seedActor, school.NewStudent{
			NewPerson: school.NewPerson{
				Username: fmt.Sprintf("student%d", i),
				Password: fmt.Sprintf("Sch0ol.Demo#%02d", i),
				Name:     fmt.Sprintf("SName%d", i),
				Surname:  fmt.Sprintf("SSurname%d", i),
				Email:    fmt.Sprintf("student%d@example.com", i),
				Phone:    fmt.Sprintf("123-456-80%02d", i),
				Address:  fmt.Sprintf("Address%d", i),
			},
			BloodType: "O-",
			Gender:    gender(i),
			Birthday:  now.AddDate(-10, 0, i),
			GradeID:   cls.GradeID,
			ClassID:   cls.ID,
			ParentID:  parents[(i-1)/2].ID,
		})
		if err != nil {
			return fmt.Errorf("seeding student %d: %w", i, err)
		}
		students = append(students, s)
	}

	// lessons
	lessons := make([]school.Lesson, 0, 30)
	for i := 1; i <= 30; i++ {
		subj := subjects[(i-1)%len(subjects)]
		start := now.Truncate(24 * time.Hour).Add(time.Duration(8+i%4) * time.Hour)
		l, err := svc.CreateLesson(ctx, seedActor, school.NewLesson{
			Name:      fmt.Sprintf("%s %d", subj.Name, i),
			Day:       days[(i-1)%len(days)],
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			SubjectID: subj.ID,
			ClassID:   classes[(i-1)%len(classes)].ID,
			TeacherID: teachers[(i-1)%len(teachers)].ID,
		})
		if err != nil {
			return fmt.Errorf("seeding lesson %d: %w", i, err)
		}
		lessons = append(lessons, l)
	}

	// exams & assignments
	exams := make([]school.Exam, 0, 10)
	assignments := make([]school.Assignment, 0, 10)
	for i := 1; i <= 10; i++ {
		start := now.AddDate(0, 0, i)
		e, err := svc.CreateExam(ctx, seedActor, school.NewExam{
			Title:     fmt.Sprintf("Exam %d", i),
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
			LessonID:  lessons[(i-1)%len(lessons)].ID,
		})
		if err != nil {
			return fmt.Errorf("seeding exam %d: %w", i, err)
		}
		exams = append(exams, e)

		a, err := svc.CreateAssignment(ctx, seedActor, school.NewAssignment{
			Title:     fmt.Sprintf("Assignment %d", i),
			StartDate: start,
			DueDate:   start.AddDate(0, 0, 7),
			LessonID:  lessons[(i-1)%len(lessons)].ID,
		})
		if err != nil {
			return fmt.Errorf("seeding assignment %d: %w", i, err)
		}
		assignments = append(assignments, a)
	}

	// results, alternating between exams and assignments
	for i := 1; i <= 20; i++ {
		data := school.NewResult{
			Score:     60 + i%40,
			StudentID: students[(i-1)%len(students)].ID,
		}
		if i%2 == 0 {
			data.AssignmentID = assignments[(i-1)%len(assignments)].ID
		} else {
			data.ExamID = exams[(i-1)%len(exams)].ID
		}
		if _, err := svc.CreateResult(ctx, seedActor, data); err != nil {
			return fmt.Errorf("seeding result %d: %w", i, err)
		}
	}

	// attendance
	for i := 1; i <= 20; i++ {
		present := i%5 != 0
		_, err := svc.CreateAttendance(ctx, seedActor, school.NewAttendance{
			Date:      now.AddDate(0, 0, -i),
			Present:   &present,
			StudentID: students[(i-1)%len(students)].ID,
			LessonID:  lessons[(i-1)%len(lessons)].ID,
		})
		if err != nil {
			return fmt.Errorf("seeding attendance %d: %w", i, err)
		}
	}

	// events & announcements; the first of each is school wide
	for i := 1; i <= 5; i++ {
		var classID int
		if i > 1 {
			classID = classes[(i-1)%len(classes)].ID
		}
		start := now.AddDate(0, 0, i)
		_, err := svc.CreateEvent(ctx, seedActor, school.NewEvent{
			Title:       fmt.Sprintf("Event %d", i),
			Description: fmt.Sprintf("Description for Event %d", i),
			StartTime:   start,
			EndTime:     start.Add(2 * time.Hour),
			ClassID:     classID,
		})
		if err != nil {
			return fmt.Errorf("seeding event %d: %w", i, err)
		}

		_, err = svc.CreateAnnouncement(ctx, seedActor, school.NewAnnouncement{
			Title:       fmt.Sprintf("Announcement %d", i),
			Description: fmt.Sprintf("Description for Announcement %d", i),
			Date:        now.AddDate(0, 0, -i),
			ClassID:     classID,
		})
		if err != nil {
			return fmt.Errorf("seeding announcement %d: %w", i, err)
		}
	}

	logger.Println("demo dataset loaded")
	return nil
}
