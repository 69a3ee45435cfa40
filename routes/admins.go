package routes

import (
	"net/http"
	"time"

	"github.com/Ragib100/LocalFix/controllers/admins"
	"github.com/Ragib100/LocalFix/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	adminRouter.Handle("/logout", http.HandlerFunc(admins.Logout)).Methods(http.MethodPost)

	// Issue management
	adminRouter.Handle("/issues", http.HandlerFunc(admins.GetIssuesHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/issues/{id:[0-9]+}", http.HandlerFunc(admins.DeleteIssueHandler)).Methods(http.MethodDelete)

	// Application review
	adminRouter.Handle("/applications/{id:[0-9]+}/accept", http.HandlerFunc(admins.AcceptApplicationHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/applications/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectApplicationHandler)).Methods(http.MethodPut)

	// Proof review
	adminRouter.Handle("/proofs", http.HandlerFunc(admins.GetPendingProofsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/proofs/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveProofHandler)).Methods(http.MethodPut)
	adminRouter.Handle("/proofs/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectProofHandler)).Methods(http.MethodPut)

	// Payment management
	adminRouter.Handle("/issues/{id:[0-9]+}/payments", http.HandlerFunc(admins.RecordPaymentHandler)).Methods(http.MethodPost)
	adminRouter.Handle("/payments", http.HandlerFunc(admins.GetPaymentsHandler)).Methods(http.MethodGet)

	// Withdrawal management
	adminRouter.Handle("/withdrawals", http.HandlerFunc(admins.GetWithdrawalsHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}/process", http.HandlerFunc(admins.ProcessWithdrawalHandler)).Methods(http.MethodPut)
}
