package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/bizportal/internal/domain/access"
	"github.com/target/bizportal/internal/domain/dashboard"
	"github.com/target/bizportal/internal/domain/model"
)

const errMsgLoadFailed = "Some data could not be loaded. Please try again."

// DashboardReader is the slice of the dashboard service the pages use.
type DashboardReader interface {
	StatsCards(ctx context.Context) ([]dashboard.StatsCard, error)
	Overview(ctx context.Context, active string) (dashboard.Overview, error)
}

// AccountLister lists local accounts for the admin pages.
type AccountLister interface {
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
}

// PortalHandlers renders the home page and the role workspaces.
type PortalHandlers struct {
	Renderer  *TemplateRenderer
	Dashboard DashboardReader
	Accounts  AccountLister // Optional: the users page shows an error without it
	Landing   access.LandingMap
	Logger    *slog.Logger
}

func (h *PortalHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Home is the guest-allowed landing page.
// GET /.
func (h *PortalHandlers) Home(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, PageMeta{Title: "BizPortal", PageTitle: "Welcome", CurrentPage: PageHome}).
		With("Heading", dashboard.Heading{Text: "BizPortal", Size: dashboard.HeadingLarge})
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		b.With("LandingPath", h.Landing.For(sess.Role))
	}
	h.Renderer.RenderPage(w, r, b.Build())
}

// AccessDenied is shown to roles without a landing page.
// GET /access-denied.
func (h *PortalHandlers) AccessDenied(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Access denied", PageTitle: "Access denied", CurrentPage: PageAccessDenied}).
		With("Heading", dashboard.Heading{Text: "Access denied", Size: dashboard.HeadingMedium}).
		Build()
	h.Renderer.RenderPage(w, r, data)
}

// Admin shows the dashboard overview.
// GET /admin?series=<client|manager|area_Manager|staff>.
func (h *PortalHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, PageMeta{Title: "Admin", PageTitle: "Admin dashboard", CurrentPage: PageAdmin})
	overview, err := h.Dashboard.Overview(r.Context(), r.URL.Query().Get("series"))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "load dashboard overview failed", "error", err)
		b.WithError(errMsgLoadFailed)
	} else {
		b.With("Overview", overview)
	}
	h.Renderer.RenderPage(w, r, b.Build())
}

// AdminUsers lists accounts, newest first.
// GET /admin/users?page=&page_size=.
func (h *PortalHandlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r, DefaultUsersPageSize, MaxUsersPageSize)
	b := NewTemplateData(r, PageMeta{Title: "Users", PageTitle: "Accounts", CurrentPage: PageAdminUsers})

	var users []*model.User
	if h.Accounts == nil {
		b.WithError("Account management is not available.")
	} else {
		// One extra row tells us whether a next page exists.
		list, err := h.Accounts.List(r.Context(), model.UsersListOptions{Limit: pageSize + 1, Offset: (page - 1) * pageSize})
		if err != nil {
			h.logger().ErrorContext(r.Context(), "list accounts failed", "error", err)
			b.WithError(errMsgLoadFailed)
		} else {
			users = list
		}
	}
	hasNext := len(users) > pageSize
	if hasNext {
		users = users[:pageSize]
	}
	b.With("Users", users).WithPagination(PaginationData{
		Page:     page,
		PageSize: pageSize,
		HasPrev:  page > 1,
		HasNext:  hasNext,
		BasePath: r.URL.Path,
	})
	h.Renderer.RenderPage(w, r, b.Build())
}

// Manager is the manager workspace.
// GET /manager.
func (h *PortalHandlers) Manager(w http.ResponseWriter, r *http.Request) {
	h.workspace(w, r, PageMeta{Title: "Manager", PageTitle: "Manager workspace", CurrentPage: PageManager})
}

// Customer is the customer workspace.
// GET /customer-page.
func (h *PortalHandlers) Customer(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "My account", PageTitle: "My account", CurrentPage: PageCustomer}).Build()
	h.Renderer.RenderPage(w, r, data)
}

// Staff is the staff workspace.
// GET /staff.
func (h *PortalHandlers) Staff(w http.ResponseWriter, r *http.Request) {
	h.workspace(w, r, PageMeta{Title: "Staff", PageTitle: "Staff workspace", CurrentPage: PageStaff})
}

// workspace renders a page headed by the stats cards.
func (h *PortalHandlers) workspace(w http.ResponseWriter, r *http.Request, meta PageMeta) {
	b := NewTemplateData(r, meta)
	cards, err := h.Dashboard.StatsCards(r.Context())
	if err != nil {
		h.logger().WarnContext(r.Context(), "load stats cards failed", "page", meta.CurrentPage, "error", err)
	} else {
		b.With("Cards", cards)
	}
	h.Renderer.RenderPage(w, r, b.Build())
}
