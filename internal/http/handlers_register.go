package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/target/bizportal/internal/domain/dashboard"
	"github.com/target/bizportal/internal/domain/registration"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/ports"
	"github.com/target/bizportal/internal/service"
)

// RegistrationSubmitter runs one sign-up submission.
type RegistrationSubmitter interface {
	Submit(ctx context.Context, recipient string, form registration.Form) (service.RegistrationResult, error)
}

// RegisterHandlers serves the sign-up page and the registration service endpoint.
type RegisterHandlers struct {
	Flow      RegistrationSubmitter
	Registrar ports.Registrar // Optional: backs POST /api/auth/register
	Renderer  *TemplateRenderer
	Logger    *slog.Logger
}

func (h *RegisterHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Page renders an empty sign-up form.
// GET /register.
func (h *RegisterHandlers) Page(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, service.RegistrationResult{})
}

// Submit validates the form and, when clean, registers the account.
// POST /register (form: fullName, email, password, confirmPassword).
func (h *RegisterHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return
	}
	form := registration.Form{
		FullName:        r.PostFormValue(registration.FieldFullName),
		Email:           r.PostFormValue(registration.FieldEmail),
		Password:        r.PostFormValue(registration.FieldPassword),
		ConfirmPassword: r.PostFormValue(registration.FieldConfirmPassword),
	}

	result, err := h.Flow.Submit(r.Context(), VisitorFromContext(r.Context()), form)
	if err != nil {
		if !apperrors.IsConflict(err) {
			h.logger().ErrorContext(r.Context(), "registration submit failed", "error", err)
		}
		WriteAppError(w, err)
		return
	}

	SetHXTrigger(w, "toasts:refresh", nil)
	if WantsPartial(r) {
		h.renderForm(w, r, result)
		return
	}
	h.render(w, r, result)
}

func (h *RegisterHandlers) data(r *http.Request, result service.RegistrationResult) map[string]any {
	return NewTemplateData(r, PageMeta{Title: "Register", PageTitle: "Create an account", CurrentPage: PageRegister}).
		With("Heading", dashboard.Heading{Text: "Create an account", Size: dashboard.HeadingLarge}).
		With("Form", result.Form).
		With("Errors", result.Errors.Map()).
		With("Success", result.Success).
		With("Message", result.Message).
		Build()
}

func (h *RegisterHandlers) render(w http.ResponseWriter, r *http.Request, result service.RegistrationResult) {
	h.Renderer.RenderPage(w, r, h.data(r, result))
}

func (h *RegisterHandlers) renderForm(w http.ResponseWriter, r *http.Request, result service.RegistrationResult) {
	if err := h.Renderer.RenderNamed(w, "register-form", h.data(r, result)); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// API accepts {name, email, password, confirmPassword} and answers
// {success, message}, the contract the registration client expects.
// POST /api/auth/register.
func (h *RegisterHandlers) API(w http.ResponseWriter, r *http.Request) {
	if h.Registrar == nil {
		WriteJSON(w, http.StatusNotFound, registration.Response{Message: "Registration is not enabled"})
		return
	}

	var req registration.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		msg := "Invalid request body"
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) {
			msg = "Request body must be JSON"
		}
		WriteJSON(w, http.StatusBadRequest, registration.Response{Message: msg})
		return
	}

	resp, err := h.Registrar.Register(r.Context(), req)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "registration failed", "error", err)
		WriteJSON(w, http.StatusInternalServerError, registration.Response{Message: registration.MsgFailed})
		return
	}
	if !resp.Success {
		status := http.StatusBadRequest
		if resp.Message == service.MsgEmailTaken {
			status = http.StatusConflict
		}
		WriteJSON(w, status, resp)
		return
	}
	WriteJSON(w, http.StatusCreated, resp)
}
