package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/bizportal/internal/domain/registration"
	"github.com/target/bizportal/internal/mocks"
	"github.com/target/bizportal/internal/service"
)

type fakeFlow struct {
	recipient string
	form      registration.Form
	result    service.RegistrationResult
	err       error
}

func (f *fakeFlow) Submit(_ context.Context, recipient string, form registration.Form) (service.RegistrationResult, error) {
	f.recipient = recipient
	f.form = form
	return f.result, f.err
}

func registerRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req.WithContext(SetVisitorInContext(req.Context(), "visitor-1"))
}

func TestRegisterHandlers_Page(t *testing.T) {
	h := &RegisterHandlers{Flow: &fakeFlow{}, Renderer: RequireTemplateRenderer(t)}

	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/register", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{
		`id="register-form"`, `name="fullName"`, `name="confirmPassword"`,
	}))
}

func TestRegisterHandlers_SubmitPassesFormAndVisitor(t *testing.T) {
	flow := &fakeFlow{result: service.RegistrationResult{Success: true, Message: registration.MsgSucceeded}}
	h := &RegisterHandlers{Flow: flow, Renderer: RequireTemplateRenderer(t)}

	rec := httptest.NewRecorder()
	h.Submit(rec, registerRequest(url.Values{
		"fullName":        {"Ann Lee"},
		"email":           {"ann@example.com"},
		"password":        {"longenough"},
		"confirmPassword": {"longenough"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "visitor-1", flow.recipient)
	assert.Equal(t, registration.Form{
		FullName:        "Ann Lee",
		Email:           "ann@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}, flow.form)
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "toasts:refresh")
	assert.Contains(t, rec.Body.String(), registration.MsgSucceeded)
}

func TestRegisterHandlers_SubmitRendersFieldErrorsAsPartial(t *testing.T) {
	flow := &fakeFlow{result: service.RegistrationResult{
		Form:   registration.Form{FullName: "Ann", Email: "nope"},
		Errors: registration.Errors{Email: registration.MsgEmailInvalid, Password: registration.MsgPasswordRequired},
	}}
	h := &RegisterHandlers{Flow: flow, Renderer: RequireTemplateRenderer(t)}

	req := registerRequest(url.Values{"fullName": {"Ann"}, "email": {"nope"}})
	req.Header.Set("Hx-Request", "true")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{
		registration.MsgEmailInvalid, registration.MsgPasswordRequired, `value="Ann"`,
	}))
	assert.NotContains(t, body, "<html")
}

func TestRegisterHandlers_SubmitInFlightIsConflict(t *testing.T) {
	h := &RegisterHandlers{Flow: &fakeFlow{err: service.ErrSubmissionInFlight}, Renderer: RequireTemplateRenderer(t)}

	rec := httptest.NewRecorder()
	h.Submit(rec, registerRequest(url.Values{}))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func apiRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const validAPIBody = `{"name":"Ann Lee","email":"ann@example.com","password":"longenough","confirmPassword":"longenough"}`

func decodeRegistrationResponse(t *testing.T, rec *httptest.ResponseRecorder) registration.Response {
	t.Helper()
	var resp registration.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterHandlers_API(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *mocks.MockRegistrar)
		wantStatus int
		wantResp   registration.Response
	}{
		{
			name: "created",
			body: validAPIBody,
			setup: func(m *mocks.MockRegistrar) {
				m.EXPECT().Register(gomock.Any(), registration.Request{
					Name: "Ann Lee", Email: "ann@example.com", Password: "longenough", ConfirmPassword: "longenough",
				}).Return(registration.Response{Success: true, Message: "Account created"}, nil)
			},
			wantStatus: http.StatusCreated,
			wantResp:   registration.Response{Success: true, Message: "Account created"},
		},
		{
			name: "email taken",
			body: validAPIBody,
			setup: func(m *mocks.MockRegistrar) {
				m.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(registration.Response{Message: service.MsgEmailTaken}, nil)
			},
			wantStatus: http.StatusConflict,
			wantResp:   registration.Response{Message: service.MsgEmailTaken},
		},
		{
			name: "rejected",
			body: validAPIBody,
			setup: func(m *mocks.MockRegistrar) {
				m.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(registration.Response{Message: registration.MsgPasswordMismatch}, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantResp:   registration.Response{Message: registration.MsgPasswordMismatch},
		},
		{
			name: "registrar error",
			body: validAPIBody,
			setup: func(m *mocks.MockRegistrar) {
				m.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(registration.Response{}, errors.New("pq: connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantResp:   registration.Response{Message: registration.MsgFailed},
		},
		{
			name:       "not json",
			body:       "name=Ann",
			wantStatus: http.StatusBadRequest,
			wantResp:   registration.Response{Message: "Request body must be JSON"},
		},
		{
			name:       "unknown field",
			body:       `{"name":"Ann","role":"admin"}`,
			wantStatus: http.StatusBadRequest,
			wantResp:   registration.Response{Message: "Invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			registrar := mocks.NewMockRegistrar(ctrl)
			if tt.setup != nil {
				tt.setup(registrar)
			}
			h := &RegisterHandlers{Flow: &fakeFlow{}, Registrar: registrar}

			rec := httptest.NewRecorder()
			h.API(rec, apiRequest(tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantResp, decodeRegistrationResponse(t, rec))
		})
	}
}

func TestRegisterHandlers_APIDisabled(t *testing.T) {
	h := &RegisterHandlers{Flow: &fakeFlow{}}

	rec := httptest.NewRecorder()
	h.API(rec, apiRequest(validAPIBody))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeRegistrationResponse(t, rec).Success)
}
