package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/activity"
)

func Test_activityApi_create(t *testing.T) {
	env := setup(t)
	student := env.createStudent(t, "grace@uni.edu")
	prof := env.createProfessor(t, "ada@uni.edu")
	due := core.NewDate(time.Now().AddDate(0, 0, 7)).String()

	body := func(name, dueDate, minGrade string) []byte {
		return marchallObj(t, map[string]string{
			"name":        name,
			"description": "First assignment",
			"due_date":    dueDate,
			"min_grade":   minGrade,
		})
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/api/activities",
			body: body("TP1", due, "6"), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "professor required", method: http.MethodPost, path: "/api/activities",
			token: getToken(t, student), body: body("TP1", due, "6"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "missing name", method: http.MethodPost, path: "/api/activities",
			token: getToken(t, prof), body: body("", due, "6"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "the activity name is required"}),
		},
		{
			name: "due date in the past", method: http.MethodPost, path: "/api/activities",
			token: getToken(t, prof), body: body("TP1", "2020-01-21", "6"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"due_date": "the due date cannot be in the past"}),
		},
		{
			name: "min grade out of range", method: http.MethodPost, path: "/api/activities",
			token: getToken(t, prof), body: body("TP1", due, "11"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"min_grade": "the minimum grade must be between 1 and 10"}),
		},
		{
			name: "ok", method: http.MethodPost, path: "/api/activities",
			token: getToken(t, prof), body: body("TP1", due, "6"),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var act activity.Activity
				if err := json.Unmarshal(rec.Body.Bytes(), &act); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if act.ID == 0 {
					t.Error("create did not assign an id")
				}
				if act.ProfessorID != prof.ProfessorID {
					t.Errorf("create professorID = %d, want %d", act.ProfessorID, prof.ProfessorID)
				}
			}
		})
	}
}

func Test_activityApi_queryAndRetrieve(t *testing.T) {
	env := setup(t)
	student := env.createStudent(t, "grace@uni.edu")
	prof := env.createProfessor(t, "ada@uni.edu")
	other := env.createProfessor(t, "joan@uni.edu")
	act1 := env.createActivity(t, prof.ProfessorID, 7)
	act2 := env.createActivity(t, other.ProfessorID, 7)

	tests := []httpTest{
		{
			name: "student sees all", method: http.MethodGet, path: "/api/activities",
			token: getToken(t, student), wantCode: http.StatusOK,
			wantData: marchallList(t, act1, act2),
		},
		{
			name: "professor sees own", method: http.MethodGet, path: "/api/activities",
			token: getToken(t, prof), wantCode: http.StatusOK,
			wantData: marchallList(t, act1),
		},
		{
			name: "filter by professor", method: http.MethodGet, path: "/api/activities?professor_id=3",
			token: getToken(t, student), wantCode: http.StatusOK,
			wantData: marchallList(t, act2),
		},
		{
			name: "retrieve", method: http.MethodGet, path: "/api/activities/1",
			token: getToken(t, student), wantCode: http.StatusOK,
			wantData: marchallObj(t, act1),
		},
		{
			name: "retrieve not found", method: http.MethodGet, path: "/api/activities/123",
			token: getToken(t, student), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "activity not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_updateAndDestroy(t *testing.T) {
	env := setup(t)
	student := env.createStudent(t, "grace@uni.edu")
	prof := env.createProfessor(t, "ada@uni.edu")
	other := env.createProfessor(t, "joan@uni.edu")
	act := env.createActivity(t, prof.ProfessorID, 7)
	env.createActivity(t, prof.ProfessorID, -1) // past due, id 2

	tests := []httpTest{
		{
			name: "update: professor required", method: http.MethodPatch, path: "/api/activities/1",
			token: getToken(t, student), body: marchallObj(t, map[string]string{"name": "TP1 v2"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "update: not the owner", method: http.MethodPatch, path: "/api/activities/1",
			token: getToken(t, other), body: marchallObj(t, map[string]string{"name": "TP1 v2"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "the activity does not belong to the requesting professor"}),
		},
		{
			name: "update: ok", method: http.MethodPatch, path: "/api/activities/1",
			token: getToken(t, prof), body: marchallObj(t, map[string]string{"name": "TP1 v2"}),
			wantCode: http.StatusOK,
		},
		{
			name: "destroy: past due", method: http.MethodDelete, path: "/api/activities/2",
			token: getToken(t, prof), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "the activity is already past due"}),
		},
		{
			name: "destroy: ok", method: http.MethodDelete, path: "/api/activities/1",
			token: getToken(t, prof), wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.name == "update: ok" {
				var updated activity.Activity
				if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if updated.Name != "TP1 v2" {
					t.Errorf("update name = %s, want TP1 v2", updated.Name)
				}
				if updated.MinGrade != act.MinGrade {
					t.Errorf("update minGrade = %d, want %d", updated.MinGrade, act.MinGrade)
				}
			}
		})
	}
}
