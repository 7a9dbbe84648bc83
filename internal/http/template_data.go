package httpx

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/target/bizportal/internal/domain/dashboard"
)

// PageMeta is the layout metadata every page carries.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"Heading":         dashboard.Heading{Text: meta.PageTitle},
		"CSRFToken":       GetCSRFToken(r),
	}
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		data["IsAuthenticated"] = true
		data["User"] = map[string]string{
			"Name":  sess.DisplayName(),
			"Email": sess.Email,
			"Role":  string(sess.Role),
		}
	}
	return data
}

// PaginationData contains pagination information for list views.
type PaginationData struct {
	Page     int
	PageSize int
	HasPrev  bool
	HasNext  bool
	BasePath string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds pagination data and builds PrevURL/NextURL.
func (b *TemplateDataBuilder) WithPagination(opts PaginationData) *TemplateDataBuilder {
	b.data["Page"] = opts.Page
	b.data["PageSize"] = opts.PageSize
	b.data["HasPrev"] = opts.HasPrev
	b.data["HasNext"] = opts.HasNext
	if opts.HasPrev {
		b.data["PrevURL"] = buildPageURL(opts.BasePath, b.r.URL.Query(), opts.Page-1, opts.PageSize)
	}
	if opts.HasNext {
		b.data["NextURL"] = buildPageURL(opts.BasePath, b.r.URL.Query(), opts.Page+1, opts.PageSize)
	}
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildPageURL keeps the current filters and replaces the paging params.
func buildPageURL(basePath string, q url.Values, page, pageSize int) string {
	out := url.Values{}
	for k, vs := range q {
		if k == "page" || k == "page_size" {
			continue
		}
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	out.Set("page", strconv.Itoa(page))
	out.Set("page_size", strconv.Itoa(pageSize))
	return basePath + "?" + out.Encode()
}

// parsePaging reads page and page_size, clamping to sane bounds.
func parsePaging(r *http.Request, defSize, maxSize int) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = defSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}
