// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"sweet-shop/controllers"
	"sweet-shop/middleware"
)

// RegisterRoutes sets up all the routes for the application under /api
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, sweetController *controllers.SweetController) {
	apiRouter := router.PathPrefix("/api").Subrouter()

	// Public routes
	apiRouter.HandleFunc("/auth/register", userController.Register).Methods(http.MethodPost)
	apiRouter.HandleFunc("/auth/login", userController.Login).Methods(http.MethodPost)

	// Protected routes
	protected := apiRouter.PathPrefix("/sweets").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("", sweetController.GetSweets).Methods(http.MethodGet)
	protected.HandleFunc("/search", sweetController.SearchSweets).Methods(http.MethodGet)
	protected.HandleFunc("/{id}/purchase", sweetController.PurchaseSweet).Methods(http.MethodPost)

	// Admin routes
	admin := apiRouter.PathPrefix("/sweets").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", sweetController.CreateSweet).Methods(http.MethodPost)
	admin.HandleFunc("/{id}", sweetController.UpdateSweet).Methods(http.MethodPut)
	admin.HandleFunc("/{id}", sweetController.DeleteSweet).Methods(http.MethodDelete)
	admin.HandleFunc("/{id}/restock", sweetController.RestockSweet).Methods(http.MethodPost)
}

// NewRouter builds the full development API handler over db
func NewRouter(db *controllers.DB, logger zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LoggerMiddleware(logger))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		controllers.WriteError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		controllers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	RegisterRoutes(router,
		controllers.NewUserController(db, logger),
		controllers.NewSweetController(db, logger),
	)
	return router
}
