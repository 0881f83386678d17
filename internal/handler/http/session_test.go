package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-data-vault/internal/service"
	"github.com/MKhiriev/go-data-vault/models"
)

func TestLogin_Success(t *testing.T) {
	router, m := newTestRouter(t)

	issued := validSession()
	issued.Token = "signed-token"

	m.sessions.EXPECT().
		Login(gomock.Any(), "admin@vault.local", "Sup3r$ecret").
		Return(issued, nil)

	rr := doRequest(router, http.MethodPost, "/api/session/login",
		`{"email":"admin@vault.local","password":"Sup3r$ecret"}`, "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer signed-token", rr.Header().Get("Authorization"))

	var resp struct {
		Token   string         `json:"token"`
		Session models.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "admin@vault.local", resp.Session.Email)
}

func TestLogin_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doRequest(router, http.MethodPost, "/api/session/login", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_WrongPasswordAndUnknownUserCollapse(t *testing.T) {
	router, m := newTestRouter(t)

	m.sessions.EXPECT().
		Login(gomock.Any(), "admin@vault.local", "bad").
		Return(models.Session{}, service.ErrWrongPassword)
	m.sessions.EXPECT().
		Login(gomock.Any(), "ghost@vault.local", "bad").
		Return(models.Session{}, service.ErrUserNotFound)

	for _, email := range []string{"admin@vault.local", "ghost@vault.local"} {
		rr := doRequest(router, http.MethodPost, "/api/session/login",
			`{"email":"`+email+`","password":"bad"}`, "")

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		// both outcomes must produce the same response body
		assert.Contains(t, rr.Body.String(), "invalid email/password")
	}
}

func TestLogin_LockedAccount(t *testing.T) {
	router, m := newTestRouter(t)

	m.sessions.EXPECT().
		Login(gomock.Any(), "admin@vault.local", "Sup3r$ecret").
		Return(models.Session{}, service.ErrAccountLocked)

	rr := doRequest(router, http.MethodPost, "/api/session/login",
		`{"email":"admin@vault.local","password":"Sup3r$ecret"}`, "")

	assert.Equal(t, http.StatusLocked, rr.Code)
}

func TestLogout_Success(t *testing.T) {
	router, m := newTestRouter(t)

	m.expectAuth()
	m.sessions.EXPECT().Logout(gomock.Any(), testToken).Return(nil)

	rr := doRequest(router, http.MethodPost, "/api/session/logout", "", testToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestWhoAmI_ReturnsSessionFromContext(t *testing.T) {
	router, m := newTestRouter(t)

	m.expectAuth()

	rr := doRequest(router, http.MethodGet, "/api/session", "", testToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var session models.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, models.RoleAdmin, session.Role)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	router, m := newTestRouter(t)

	m.expectAuth()
	m.users.EXPECT().
		ChangePassword(gomock.Any(), validSession(), "old", "NewSecret123").
		Return(service.ErrWrongPassword)

	rr := doRequest(router, http.MethodPut, "/api/account/password",
		`{"old_password":"old","new_password":"NewSecret123"}`, testToken)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
