package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"goblog/internal/model"
)

func requestWithUser(u *model.User) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/new-post", nil)
	if u != nil {
		ctx := context.WithValue(r.Context(), ContextKeyUser, *u)
		r = r.WithContext(ctx)
	}
	return r
}

func TestGetUser(t *testing.T) {
	if u := GetUser(requestWithUser(nil)); u != nil {
		t.Errorf("anonymous request should return nil, got %+v", u)
	}

	want := &model.User{ID: 7, Email: "x@example.com", Name: "X"}
	got := GetUser(requestWithUser(want))
	if got == nil || got.ID != 7 {
		t.Errorf("GetUser = %+v, want id 7", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
		wantRan    bool
	}{
		{"anonymous", nil, http.StatusForbidden, false},
		{"regular user", &model.User{ID: 2}, http.StatusForbidden, false},
		{"admin", &model.User{ID: model.AdminUserID}, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ran = true
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rec, requestWithUser(tt.user))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ran != tt.wantRan {
				t.Errorf("handler ran = %v, want %v", ran, tt.wantRan)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	if IsAdmin(requestWithUser(nil)) {
		t.Error("anonymous request should not be admin")
	}
	if IsAdmin(requestWithUser(&model.User{ID: 2})) {
		t.Error("user 2 should not be admin")
	}
	if !IsAdmin(requestWithUser(&model.User{ID: model.AdminUserID})) {
		t.Error("user 1 should be admin")
	}
}
