package router

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"bboard/internal/db"
	"bboard/internal/http/handlers"
	"bboard/internal/http/middleware"
	"bboard/internal/security"
)

// Setup wires every route to its handler and applies the global
// middleware chain. Mutating post routes additionally require a
// signed-in session.
func Setup(database *db.DB, sessions *security.SessionManager, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()

	postHandler := handlers.NewPostHandler(database, sessions, logger)
	authHandler := handlers.NewAuthHandler(database, sessions, logger)

	requireAuth := middleware.RequireAuth(sessions)

	r.HandleFunc("/", postHandler.List).Methods("GET")
	r.HandleFunc("/post/{id:[0-9]+}", postHandler.View).Methods("GET")
	r.HandleFunc("/search", postHandler.Search).Methods("GET")

	r.Handle("/add", requireAuth(http.HandlerFunc(postHandler.Create))).Methods("POST")
	r.Handle("/edit/{id:[0-9]+}", requireAuth(http.HandlerFunc(postHandler.Edit))).Methods("POST")
	r.Handle("/delete/{id:[0-9]+}", requireAuth(http.HandlerFunc(postHandler.Delete))).Methods("POST")

	r.HandleFunc("/register", authHandler.RegisterForm).Methods("GET")
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.LoginForm).Methods("GET")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	return middleware.Chain(r,
		middleware.Recover(logger),
		middleware.Logging(logger),
	)
}
