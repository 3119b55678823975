package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	. "github.com/vikasdeshmukh63/school-application-dashboard/apps/api/echo"
	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
	emailsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/email"
	identitysvc "github.com/vikasdeshmukh63/school-application-dashboard/services/identity"
	logsvc "github.com/vikasdeshmukh63/school-application-dashboard/services/logger"
	inmemdb "github.com/vikasdeshmukh63/school-application-dashboard/storage/database/inmem"
)

var (
	ctx = context.Background()

	admin = access.Actor{Role: access.RoleAdmin, UserID: "adm1"}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func setup(t *testing.T) (Server, *school.Service, *identitysvc.ServiceMock) {
	t.Helper()
	emailsvc.ClearSentMessages()

	repo := inmemdb.NewRepository()
	idp := identitysvc.NewServiceMock()
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	svc := school.NewService(repo, idp, emailsvc.NewConsoleServiceMock(), logger)

	app := NewServer(
		&Options{
			DisableReqLogs: true,
			SchoolSvc:      svc,
			Auth:           idp,
			Logger:         logger,
		},
	)
	return app, svc, idp
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, acct core.IdentityAccount) string {
	t.Helper()
	token, err := GenerateToken(GetAccountClaims(acct))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func roleToken(t *testing.T, role access.Role, userID string) string {
	t.Helper()
	return getToken(t, core.IdentityAccount{ID: userID, Username: userID, Role: string(role)})
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// seeding helpers, all through the gated service paths

func seedTeacher(t *testing.T, svc *school.Service, i int) school.Teacher {
	t.Helper()
	teacher, err := svc.CreateTeacher(ctx, admin, school.NewTeacher{
		NewPerson: school.NewPerson{
			Username: fmt.Sprintf("teacher%d", i),
			Password: "Sup3r.Tr0ng#pwd",
			Name:     fmt.Sprintf("Name%d", i),
			Surname:  fmt.Sprintf("Surname%d", i),
			Address:  "addr",
		},
		BloodType: "A+",
		Gender:    school.GenderMale,
		Birthday:  time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seedTeacher(): %v", err)
	}
	return teacher
}

func seedClass(t *testing.T, svc *school.Service, name string, capacity int) school.Class {
	t.Helper()
	class, err := svc.CreateClass(ctx, admin, school.NewClass{Name: name, Capacity: capacity, GradeID: 1})
	if err != nil {
		t.Fatalf("seedClass(): %v", err)
	}
	return class
}

func seedSubject(t *testing.T, svc *school.Service, name string) school.Subject {
	t.Helper()
	subject, err := svc.CreateSubject(ctx, admin, school.NewSubject{Name: name})
	if err != nil {
		t.Fatalf("seedSubject(): %v", err)
	}
	return subject
}

func seedLesson(t *testing.T, svc *school.Service, subjectID, classID int, teacherID string) school.Lesson {
	t.Helper()
	start := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	lesson, err := svc.CreateLesson(ctx, admin, school.NewLesson{
		Name:      "Lesson",
		Day:       school.DayMonday,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		SubjectID: subjectID,
		ClassID:   classID,
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("seedLesson(): %v", err)
	}
	return lesson
}
