package httpx

// CurrentPage constants identify pages in templates and navigation.
const (
	PageHome         = "home"
	PageSignIn       = "sign-in"
	PageRegister     = "register"
	PageAccessDenied = "access-denied"

	// Role landing pages.
	PageAdmin      = "admin"
	PageAdminUsers = "admin-users"
	PageManager    = "manager"
	PageCustomer   = "customer"
	PageStaff      = "staff"
)

const (
	// DefaultUsersPageSize is the admin account list page size.
	DefaultUsersPageSize = 25
	// MaxUsersPageSize caps page_size on the admin account list.
	MaxUsersPageSize = 100
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:         "home-content",
	PageSignIn:       "sign-in-content",
	PageRegister:     "register-content",
	PageAccessDenied: "access-denied-content",
	PageAdmin:        "admin-content",
	PageAdminUsers:   "admin-users-content",
	PageManager:      "manager-content",
	PageCustomer:     "customer-content",
	PageStaff:        "staff-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to home-content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "home-content"
}
