package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/vikasdeshmukh63/school-application-dashboard/apps/api/echo"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

func Test_teacherApi(t *testing.T) {
	app, svc, _ := setup(t)
	seeded := seedTeacher(t, svc, 1)

	adminToken := roleToken(t, access.RoleAdmin, "adm1")
	teacherToken := roleToken(t, access.RoleTeacher, seeded.ID)
	studentToken := roleToken(t, access.RoleStudent, "stu1")

	mutOK := marchallObj(t, MutationResponse{Success: true})
	mutErr := marchallObj(t, MutationResponse{Error: true})

	newTeacher := school.NewTeacher{
		NewPerson: school.NewPerson{
			Username: "teacher2",
			Password: "Sup3r.Tr0ng#pwd",
			Name:     "Name2",
			Surname:  "Surname2",
			Address:  "addr",
		},
		BloodType: "B+",
		Gender:    school.GenderFemale,
		Birthday:  time.Date(1992, time.June, 2, 0, 0, 0, 0, time.UTC),
	}

	tests := []httpTest{
		{name: "list: no token", method: http.MethodGet, path: "/v1/teachers",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "list: students are not allowed", method: http.MethodGet, path: "/v1/teachers", token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "create: teachers are not allowed", method: http.MethodPost, path: "/v1/teachers", token: teacherToken,
			body: marchallObj(t, newTeacher), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "create: invalid payload", method: http.MethodPost, path: "/v1/teachers", token: adminToken,
			body: []byte(`{"username":"x"}`), wantCode: http.StatusBadRequest, wantData: mutErr},
		{name: "create", method: http.MethodPost, path: "/v1/teachers", token: adminToken,
			body: marchallObj(t, newTeacher), wantCode: http.StatusOK, wantData: mutOK},
		{name: "delete: unknown id", method: http.MethodDelete, path: "/v1/teachers/user_nope", token: adminToken,
			wantCode: http.StatusNotFound, wantData: mutErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the created teacher shows up for admin
	req, rec := newAuthRequest(http.MethodGet, "/v1/teachers", adminToken)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []school.Teacher `json:"items"`
		Count int              `json:"count"`
		Page  int              `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.Page)
	assert.Len(t, resp.Items, 2)
}

func Test_listDropsBadFilter(t *testing.T) {
	app, svc, _ := setup(t)
	seedTeacher(t, svc, 1)
	seedTeacher(t, svc, 2)

	// an unparsable classId is dropped, the rows still come back
	req, rec := newAuthRequest(http.MethodGet, "/v1/teachers?classId=abc", roleToken(t, access.RoleAdmin, "adm1"))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func Test_listFailsClosed(t *testing.T) {
	app, svc, _ := setup(t)
	seedTeacher(t, svc, 1)

	// a teacher token with no subject resolves to no rows, never all rows
	token := roleToken(t, access.RoleTeacher, "")

	tt := httpTest{
		method: http.MethodGet, path: "/v1/students", token: token,
		wantCode: http.StatusOK,
		wantData: marchallObj(t, ListResponse{Items: []school.Student{}, Count: 0, Page: 1}),
	}
	req, rec := newAuthRequest(tt.method, tt.path, tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_lessonOwnership(t *testing.T) {
	app, svc, _ := setup(t)
	owner := seedTeacher(t, svc, 1)
	other := seedTeacher(t, svc, 2)
	class := seedClass(t, svc, "1A", 20)
	subject := seedSubject(t, svc, "Maths")
	lesson := seedLesson(t, svc, subject.ID, class.ID, owner.ID)

	ownerToken := roleToken(t, access.RoleTeacher, owner.ID)
	otherToken := roleToken(t, access.RoleTeacher, other.ID)

	mutOK := marchallObj(t, MutationResponse{Success: true})
	mutErr := marchallObj(t, MutationResponse{Error: true})

	start := time.Date(2026, time.September, 8, 10, 0, 0, 0, time.UTC)
	spoofed := school.NewLesson{
		Name:      "Spoofed",
		Day:       school.DayTuesday,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		SubjectID: subject.ID,
		ClassID:   class.ID,
		TeacherID: owner.ID, // ignored, the caller becomes the owner
	}

	tests := []httpTest{
		{name: "delete: not the owner", method: http.MethodDelete, path: fmt.Sprintf("/v1/lessons/%d", lesson.ID),
			token: otherToken, wantCode: http.StatusForbidden, wantData: mutErr},
		{name: "create: owner forced to caller", method: http.MethodPost, path: "/v1/lessons",
			token: otherToken, body: marchallObj(t, spoofed), wantCode: http.StatusOK, wantData: mutOK},
		{name: "delete: owner", method: http.MethodDelete, path: fmt.Sprintf("/v1/lessons/%d", lesson.ID),
			token: ownerToken, wantCode: http.StatusOK, wantData: mutOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the spoofed teacher_id was overwritten with the caller's ID
	lessons, _, err := svc.ListLessons(ctx, admin, school.LessonFilter{}, 1)
	require.NoError(t, err)
	var created *school.Lesson
	for i := range lessons {
		if lessons[i].Name == "Spoofed" {
			created = &lessons[i]
		}
	}
	require.NotNil(t, created)
	assert.Equal(t, other.ID, created.TeacherID)
}

func Test_examOwnership(t *testing.T) {
	app, svc, _ := setup(t)
	owner := seedTeacher(t, svc, 1)
	other := seedTeacher(t, svc, 2)
	class := seedClass(t, svc, "1A", 20)
	subject := seedSubject(t, svc, "Maths")
	lesson := seedLesson(t, svc, subject.ID, class.ID, owner.ID)

	mutOK := marchallObj(t, MutationResponse{Success: true})
	mutErr := marchallObj(t, MutationResponse{Error: true})

	start := time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC)
	exam := school.NewExam{
		Title:     "Midterm",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		LessonID:  lesson.ID,
	}

	tests := []httpTest{
		{name: "create: not the lesson owner", method: http.MethodPost, path: "/v1/exams",
			token: roleToken(t, access.RoleTeacher, other.ID), body: marchallObj(t, exam),
			wantCode: http.StatusForbidden, wantData: mutErr},
		{name: "create: lesson owner", method: http.MethodPost, path: "/v1/exams",
			token: roleToken(t, access.RoleTeacher, owner.ID), body: marchallObj(t, exam),
			wantCode: http.StatusOK, wantData: mutOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_pagination(t *testing.T) {
	app, svc, _ := setup(t)
	for i := 1; i <= 12; i++ {
		seedTeacher(t, svc, i)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/teachers?page=2", roleToken(t, access.RoleAdmin, "adm1"))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []school.Teacher `json:"items"`
		Count int              `json:"count"`
		Page  int              `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Count)
	assert.Equal(t, 2, resp.Page)
	assert.Len(t, resp.Items, 2)
}

func Test_announcementApi(t *testing.T) {
	app, svc, _ := setup(t)
	seedClass(t, svc, "1A", 20)

	mutOK := marchallObj(t, MutationResponse{Success: true})

	data := school.NewAnnouncement{
		Title:       "PTA meeting",
		Description: "All parents are invited.",
		Date:        time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []httpTest{
		{name: "create: teachers are not allowed", method: http.MethodPost, path: "/v1/announcements",
			token: roleToken(t, access.RoleTeacher, "t1"), body: marchallObj(t, data),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "create", method: http.MethodPost, path: "/v1/announcements",
			token: roleToken(t, access.RoleAdmin, "adm1"), body: marchallObj(t, data),
			wantCode: http.StatusOK, wantData: mutOK},
		{name: "list: everyone sees the global one", method: http.MethodGet, path: "/v1/announcements",
			token:    roleToken(t, access.RoleStudent, "stu1"),
			wantCode: http.StatusOK, extra: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			require.Equal(t, tt.wantCode, rec.Code)
			var resp struct {
				Items []school.Announcement `json:"items"`
				Count int                   `json:"count"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.extra, resp.Count)
		})
	}
}
