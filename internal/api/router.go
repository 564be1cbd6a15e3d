package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/asimsek-dev/quillpad/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/asimsek-dev/quillpad/internal/api/handlers"
	"github.com/asimsek-dev/quillpad/internal/api/middleware"
	"github.com/asimsek-dev/quillpad/internal/config"
	"github.com/rs/cors"
)

// withAuth wraps a handler with the mandatory credential check.
func withAuth(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(h)
}

// maybeAuth wraps a read handler whose result set widens for the owner.
func maybeAuth(h http.HandlerFunc) http.Handler {
	return middleware.OptionalAuth(h)
}

func SetupRouter() http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// ---------- AUTH ----------
	mux.HandleFunc("POST /signup", handlers.Signup)
	mux.HandleFunc("POST /signin", handlers.Signin)

	// ---------- PUBLIC READS (owner sees more) ----------
	mux.HandleFunc("GET /user", handlers.GetFeed)
	mux.Handle("GET /user/{user}", maybeAuth(handlers.GetProfile))
	mux.Handle("GET /user/{user}/posts", maybeAuth(handlers.ListUserPosts))
	mux.Handle("GET /user/{user}/posts/{post}", maybeAuth(handlers.GetPost))
	mux.Handle("GET /user/{user}/categories", maybeAuth(handlers.ListUserCategories))
	mux.Handle("GET /user/{user}/categories/category", maybeAuth(handlers.ListPostsByCategory))
	mux.HandleFunc("GET /user/{user}/follows", handlers.ListFollows)
	mux.HandleFunc("GET /user/{user}/starreds", handlers.ListStarred)
	mux.Handle("GET /user/me", withAuth(handlers.Me))

	// ---------- CREATES ----------
	mux.Handle("POST /follow", withAuth(handlers.Follow))
	mux.Handle("POST /mark-as-starred", withAuth(handlers.Star))
	mux.Handle("POST /new/post", withAuth(handlers.CreatePost))
	mux.Handle("POST /new/category", withAuth(handlers.CreateCategory))
	mux.Handle("POST /new/message", withAuth(handlers.SendMessage))

	// ---------- UPDATES ----------
	mux.Handle("PUT /edit/{user}/post/{post}", withAuth(handlers.UpdatePost))
	mux.Handle("PUT /edit/{user}/category/{category}", withAuth(handlers.UpdateCategory))
	mux.Handle("PUT /edit/change-password", withAuth(handlers.ChangePassword))
	mux.Handle("PUT /edit/user", withAuth(handlers.UpdateProfile))

	// ---------- DELETES ----------
	mux.Handle("DELETE /delete/posts/{post}", withAuth(handlers.DeletePost))
	mux.Handle("DELETE /delete/categories/{category}", withAuth(handlers.DeleteCategory))
	mux.Handle("DELETE /delete/user", withAuth(handlers.DeleteUser))

	// ---------- ADMIN (identity-scoped views) ----------
	mux.Handle("GET /admin/edit/post/{post}", withAuth(handlers.EditPostView))
	mux.Handle("GET /admin/edit/category/{category}", withAuth(handlers.EditCategoryView))
	mux.Handle("GET /admin/user", withAuth(handlers.Me))
	mux.Handle("GET /admin/categories", withAuth(handlers.MyCategories))
	mux.Handle("GET /admin/messages", withAuth(handlers.Inbox))
	mux.Handle("GET /admin/messages/w/{user}", withAuth(handlers.Conversation))
	mux.Handle("GET /admin/messages/{messageId}", withAuth(handlers.GetMessage))

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
