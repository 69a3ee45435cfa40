package routes

import (
	"net/http"
	"time"

	"github.com/Ragib100/LocalFix/controllers"
	"github.com/Ragib100/LocalFix/controllers/auth"
	"github.com/Ragib100/LocalFix/controllers/citizens"
	"github.com/Ragib100/LocalFix/controllers/workers"
	"github.com/Ragib100/LocalFix/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers citizen and worker routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register limiter: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// General authenticated traffic: 120 per IP per minute
	apiLimiter := middleware.NewIPRateLimiter(120, time.Minute)

	citizenOnly := func(h http.HandlerFunc) http.Handler {
		return apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireRole("citizen")(h)))
	}
	workerOnly := func(h http.HandlerFunc) http.Handler {
		return apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireRole("worker")(h)))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return apiLimiter.Middleware(middleware.AuthMiddleware(h))
	}

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", authed(auth.LogoutHandler)).Methods(http.MethodPost)

	// Photo upload (any authenticated user)
	api.Handle("/uploads/photo", authed(controllers.UploadPhotoHandler)).Methods(http.MethodPost)

	// Citizen: issue reporting
	api.Handle("/issues", citizenOnly(citizens.CreateIssueHandler)).Methods(http.MethodPost)
	api.Handle("/users/issues", citizenOnly(citizens.ListMyIssuesHandler)).Methods(http.MethodGet)

	// Worker: applications
	api.Handle("/issues/{id:[0-9]+}/applications", workerOnly(workers.SubmitApplicationHandler)).Methods(http.MethodPost)
	api.Handle("/users/applications", workerOnly(workers.ListMyApplicationsHandler)).Methods(http.MethodGet)
	api.Handle("/issues/{id:[0-9]+}/applications", workerOnly(workers.DeleteApplicationHandler)).Methods(http.MethodDelete)

	// Worker: progress and proof
	api.Handle("/issues/{id:[0-9]+}/start", workerOnly(workers.StartWorkHandler)).Methods(http.MethodPost)
	api.Handle("/issues/{id:[0-9]+}/proofs", workerOnly(workers.SubmitProofHandler)).Methods(http.MethodPost)

	// Worker: balance & withdrawals
	api.Handle("/users/balance", workerOnly(workers.GetBalanceHandler)).Methods(http.MethodGet)
	api.Handle("/users/withdrawals", workerOnly(workers.RequestWithdrawalHandler)).Methods(http.MethodPost)
	api.Handle("/users/withdrawals", workerOnly(workers.ListWithdrawalsHandler)).Methods(http.MethodGet)
}
