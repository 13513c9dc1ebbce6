package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/transport/http/handler"
	"github.com/contactdeck/contactdeck/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register func(ctx context.Context, input usecase.RegisterInput) (string, error)
	login    func(ctx context.Context, input usecase.LoginInput) (string, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (string, error) {
	return f.register(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, input usecase.LoginInput) (string, error) {
	return f.login(ctx, input)
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	h := handler.NewAuthHandler(uc, testLogger())

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

type envelopeBody struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var e envelopeBody
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, w.Body.String())
	}
	return e
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/auth/register", `{bad json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_MissingPassword_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/auth/register",
		`{"username":"alice","email":"a@x.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Status != "error" {
		t.Errorf("envelope status = %q, want error", e.Status)
	}
}

func TestRegister_MalformedEmail_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/auth/register",
		`{"username":"alice","email":"not-an-email","password":"pw"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_Success_Returns201WithToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, input usecase.RegisterInput) (string, error) {
			if input.Email != "a@x.com" {
				t.Errorf("email = %q, want a@x.com", input.Email)
			}
			return "signed-token", nil
		},
	}

	w := postJSON(newAuthEngine(uc), "/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"hunter22"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	e := decodeEnvelope(t, w)
	if e.Status != "success" {
		t.Errorf("envelope status = %q, want success", e.Status)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Token != "signed-token" {
		t.Errorf("token = %q, want signed-token", data.Token)
	}
}

func TestRegister_EmailTaken_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _ usecase.RegisterInput) (string, error) {
			return "", domain.ErrEmailTaken
		},
	}

	w := postJSON(newAuthEngine(uc), "/api/auth/register",
		`{"email":"a@x.com","password":"hunter22"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRegister_UsecaseFailure_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _ usecase.RegisterInput) (string, error) {
			return "", errors.New("store down")
		},
	}

	w := postJSON(newAuthEngine(uc), "/api/auth/register",
		`{"email":"a@x.com","password":"hunter22"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// ---- Login ----

func TestLogin_MissingFields_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/auth/login", `{"email":"a@x.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_InvalidCredentials_SameBodyForBothFailures(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _ usecase.LoginInput) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	engine := newAuthEngine(uc)

	// Unknown email and wrong password take the same path and must be
	// indistinguishable to the caller.
	unknown := postJSON(engine, "/api/auth/login", `{"email":"ghost@x.com","password":"pw"}`)
	wrongPw := postJSON(engine, "/api/auth/login", `{"email":"a@x.com","password":"wrong"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401, 401", unknown.Code, wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Errorf("bodies differ: %q vs %q", unknown.Body.String(), wrongPw.Body.String())
	}
}

func TestLogin_Success_Returns200WithToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _ usecase.LoginInput) (string, error) {
			return "signed-token", nil
		},
	}

	w := postJSON(newAuthEngine(uc), "/api/auth/login", `{"email":"a@x.com","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	e := decodeEnvelope(t, w)
	if e.Status != "success" {
		t.Errorf("envelope status = %q, want success", e.Status)
	}
}
