package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"bboard/internal/db"
	"bboard/internal/pagination"
	"bboard/internal/security"
)

// PostHandler serves the board: listing, viewing, searching and the
// author-gated mutations.
type PostHandler struct {
	renderer
	db *db.DB
}

func NewPostHandler(database *db.DB, sessions *security.SessionManager, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		renderer: renderer{logger: logger, sessions: sessions},
		db:       database,
	}
}

// List renders the paginated board. The full unpaginated set is handed
// to the template alongside the current page for the sidebar listing.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	total, err := h.db.CountPosts()
	if err != nil {
		h.serverError(w, err)
		return
	}

	window := pagination.NewWindow(r.URL.Query().Get("page"), total)

	posts, err := h.db.ListPosts(window.Offset, window.Limit)
	if err != nil {
		h.serverError(w, err)
		return
	}

	allPosts, err := h.db.ListAllPosts()
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, r, http.StatusOK, "home.html", &templateData{
		Title:       "Board",
		Posts:       posts,
		AllPosts:    allPosts,
		CurrentPage: window.Page,
		TotalPages:  window.TotalPages,
	})
}

// View renders a single post.
func (h *PostHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.notFound(w)
		return
	}

	post, err := h.db.GetPost(id)
	if err != nil {
		if errors.Is(err, db.ErrPostNotFound) {
			h.notFound(w)
			return
		}
		h.serverError(w, err)
		return
	}

	h.render(w, r, http.StatusOK, "post.html", &templateData{
		Title: post.Title,
		Post:  post,
	})
}

// Create inserts a new post owned by the signed-in user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident := h.sessions.Current(r)

	if err := r.ParseForm(); err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	content := strings.TrimSpace(r.PostFormValue("content"))

	if title == "" || content == "" {
		h.renderListWithFormError(w, r, "Title and content are required.", map[string]string{
			"title":   title,
			"content": content,
		})
		return
	}

	if _, err := h.db.CreatePost(title, content, ident.ID); err != nil {
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit updates title and content of a post the caller owns.
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(id int, ident *security.Identity) error {
		if err := r.ParseForm(); err != nil {
			return errBadRequest
		}

		title := strings.TrimSpace(r.PostFormValue("title"))
		content := strings.TrimSpace(r.PostFormValue("content"))
		if title == "" || content == "" {
			return errBadRequest
		}

		return h.db.UpdatePost(id, ident.ID, title, content)
	})
}

// Delete removes a post the caller owns.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(id int, ident *security.Identity) error {
		return h.db.DeletePost(id, ident.ID)
	})
}

var errBadRequest = errors.New("bad request")

// mutate runs the shared fetch-owner, authorize, act sequence behind
// Edit and Delete. The action itself repeats the author predicate in
// SQL, so the gate result cannot be invalidated between check and
// mutation.
func (h *PostHandler) mutate(w http.ResponseWriter, r *http.Request, action func(id int, ident *security.Identity) error) {
	ident := h.sessions.Current(r)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.notFound(w)
		return
	}

	ownerID, err := h.db.GetPostOwner(id)
	if err != nil {
		if errors.Is(err, db.ErrPostNotFound) {
			h.notFound(w)
			return
		}
		h.serverError(w, err)
		return
	}

	if err := security.Authorize(ownerID, ident); err != nil {
		h.forbidden(w)
		return
	}

	if err := action(id, ident); err != nil {
		switch {
		case errors.Is(err, errBadRequest):
			h.clientError(w, http.StatusBadRequest)
		case errors.Is(err, db.ErrPostNotFound):
			h.notFound(w)
		default:
			h.serverError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Search renders posts whose title contains the query substring,
// case-insensitively, with the same pagination as List. An empty query
// goes back to the board.
func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	total, err := h.db.SearchPostsCount(query)
	if err != nil {
		h.serverError(w, err)
		return
	}

	window := pagination.NewWindow(r.URL.Query().Get("page"), total)

	posts, err := h.db.SearchPosts(query, window.Offset, window.Limit)
	if err != nil {
		h.serverError(w, err)
		return
	}

	allPosts, err := h.db.ListAllPosts()
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, r, http.StatusOK, "home.html", &templateData{
		Title:       "Search",
		Posts:       posts,
		AllPosts:    allPosts,
		Query:       query,
		CurrentPage: window.Page,
		TotalPages:  window.TotalPages,
	})
}

// renderListWithFormError re-renders the board with the submitted form
// values and a validation message.
func (h *PostHandler) renderListWithFormError(w http.ResponseWriter, r *http.Request, formError string, formData map[string]string) {
	total, err := h.db.CountPosts()
	if err != nil {
		h.serverError(w, err)
		return
	}

	window := pagination.NewWindow("1", total)

	posts, err := h.db.ListPosts(window.Offset, window.Limit)
	if err != nil {
		h.serverError(w, err)
		return
	}

	allPosts, err := h.db.ListAllPosts()
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, r, http.StatusUnprocessableEntity, "home.html", &templateData{
		Title:       "Board",
		FormError:   formError,
		FormData:    formData,
		Posts:       posts,
		AllPosts:    allPosts,
		CurrentPage: window.Page,
		TotalPages:  window.TotalPages,
	})
}
