package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/mock"
	"github.com/speakai-app/speakai-server/internal/service"
	"github.com/speakai-app/speakai-server/internal/utils"
)

// newTestHandler builds a Handler backed by service mocks.
func newTestHandler(t *testing.T) (*Handler, *mock.MockAuthService, *mock.MockSessionService, *mock.MockUserService) {
	t.Helper()
	ctrl := gomock.NewController(t)

	auth := mock.NewMockAuthService(ctrl)
	sessions := mock.NewMockSessionService(ctrl)
	users := mock.NewMockUserService(ctrl)

	h := NewHandler(&service.Services{
		AuthService:    auth,
		SessionService: sessions,
		UserService:    users,
	}, "test", logger.Nop())

	return h, auth, sessions, users
}

// authedRequest builds a request whose context already carries the user id,
// as the auth middleware would have set it.
func authedRequest(method, target string, userID int64, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), utils.UserIDCtxKey, userID)
	return req.WithContext(ctx)
}

func TestGetServerVersion(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "test" {
		t.Errorf("got version %q, want %q", got, "test")
	}
}
