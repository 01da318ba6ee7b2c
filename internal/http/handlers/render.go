package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"bboard/internal/models"
	"bboard/internal/security"
)

//go:embed templates/*.html
var templateFS embed.FS

var contentPolicy = bluemonday.UGCPolicy()

// renderMarkdown converts a post body from markdown to HTML and strips
// anything the UGC policy does not allow.
func renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		// Fall back to the sanitized raw text.
		return template.HTML(contentPolicy.Sanitize(content))
	}
	return template.HTML(contentPolicy.SanitizeBytes(buf.Bytes()))
}

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdown,
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i + 1
		}
		return s
	},
}

// templateData carries everything any page template can reference.
type templateData struct {
	Title       string
	FormError   string
	FormData    map[string]string
	CurrentUser *security.Identity
	Post        *models.Post
	Posts       []*models.Post
	AllPosts    []*models.Post
	Query       string
	CurrentPage int
	TotalPages  int
}

type renderer struct {
	logger   *slog.Logger
	sessions *security.SessionManager
}

// render executes the layout plus one page template into a buffer
// before touching the response, so template failures still produce a
// clean 500.
func (rn *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	if data == nil {
		data = &templateData{}
	}
	if data.CurrentUser == nil {
		data.CurrentUser = rn.sessions.Current(r)
	}
	if data.FormData == nil {
		data.FormData = map[string]string{}
	}

	ts, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS,
		"templates/base.layout.html", "templates/"+page)
	if err != nil {
		rn.serverError(w, err)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		rn.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (rn *renderer) serverError(w http.ResponseWriter, err error) {
	rn.logger.Error("server error", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (rn *renderer) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (rn *renderer) notFound(w http.ResponseWriter) {
	rn.clientError(w, http.StatusNotFound)
}

func (rn *renderer) forbidden(w http.ResponseWriter) {
	rn.clientError(w, http.StatusForbidden)
}
