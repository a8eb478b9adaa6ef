package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/Luis-AP/gespro/apps/api/echo"
	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/activity"
	"github.com/Luis-AP/gespro/core/project"
	"github.com/Luis-AP/gespro/core/user"
	dummydb "github.com/Luis-AP/gespro/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Critical(string, ...interface{}) {
}
func (testLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

type testEnv struct {
	app     echoapi.Server
	usrRepo user.Repository
	actRepo activity.Repository
	prjRepo project.Repository
	prjSvc  *project.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	actRepo := dummydb.NewActivityRepository(db)
	prjRepo := dummydb.NewProjectRepository(db)

	// set up services
	logger := testLogger{}
	usrSvc := user.NewService(usrRepo)
	actSvc := activity.NewService(actRepo, usrRepo, logger)
	prjSvc := project.NewService(prjRepo, actRepo)

	conf := &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Gespro",
		SecretKey: "t0p-s3cr3t",
		Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
	}

	// set up server
	app := echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         logger,
			UserSvc:        usrSvc,
			ActivitySvc:    actSvc,
			ProjectSvc:     prjSvc,
		},
	)
	return &testEnv{
		app:     app,
		usrRepo: usrRepo,
		actRepo: actRepo,
		prjRepo: prjRepo,
		prjSvc:  prjSvc,
	}
}

func (env *testEnv) createStudent(t *testing.T, email string) user.User {
	t.Helper()
	usr := user.User{
		Email:            email,
		FirstName:        "Grace",
		LastName:         "Hopper",
		EnrollmentNumber: "EN-" + email,
	}
	if err := usr.SetPassword("v3ry.s3cur3"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := env.usrRepo.CreateStudent(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	return usr
}

func (env *testEnv) createProfessor(t *testing.T, email string) user.User {
	t.Helper()
	usr := user.User{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	if err := usr.SetPassword("v3ry.s3cur3"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := env.usrRepo.CreateProfessor(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateProfessor(): %v", err)
	}
	return usr
}

func (env *testEnv) createActivity(t *testing.T, professorID, daysUntilDue int) activity.Activity {
	t.Helper()
	act, err := env.actRepo.CreateActivity(context.Background(), activity.Activity{
		Name:        "TP1",
		DueDate:     core.NewDate(time.Now().AddDate(0, 0, daysUntilDue)),
		MinGrade:    6,
		ProfessorID: professorID,
	})
	if err != nil {
		t.Fatalf("CreateActivity(): %v", err)
	}
	return act
}

func (env *testEnv) createProject(t *testing.T, activityID, studentID int) project.Project {
	t.Helper()
	prj, err := env.prjRepo.CreateProject(context.Background(), project.NewProject{
		Title:         "Compiler",
		RepositoryURL: "https://github.com/acme/compiler",
		ActivityID:    activityID,
	}, studentID)
	if err != nil {
		t.Fatalf("CreateProject(): %v", err)
	}
	return prj
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

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
