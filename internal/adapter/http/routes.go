package http

import "github.com/labstack/echo/v4"

// RegisterRoutes binds every handler to its path. The idempotency middleware
// (nil-able for tests) guards mutating routes only; echo's method check in
// the middleware itself lets it sit on the whole group.
func RegisterRoutes(e *echo.Echo, h *Handler, lh *LoanHandler, wh *WorkflowHandler, rh *RiskHandler, uh *UserHandler, idemp echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	g := e.Group("")
	if idemp != nil {
		g.Use(idemp)
	}

	g.POST("/loans", lh.CreateLoan)
	g.GET("/loans", lh.ListLoans)
	g.GET("/loans/:loan_id", lh.GetLoan)
	g.PATCH("/loans/:loan_id", lh.UpdateLoan)
	g.DELETE("/loans/:loan_id", lh.DeleteLoan)
	g.POST("/loans/:loan_id/salary", lh.SetSalary)
	g.GET("/loans/:loan_id/computation", lh.GetComputation)

	g.POST("/loans/:loan_id/transition", wh.Transition)
	g.GET("/loans/:loan_id/payments", wh.GetSchedule)
	g.POST("/loans/:loan_id/payments/:payment_id/paid", wh.MarkPaid)
	g.POST("/loans/:loan_id/payments/:payment_id/waive-penalty", wh.WaivePenalty)
	g.POST("/loans/:loan_id/payments/:payment_id/defer-penalty", wh.DeferPenalty)
	g.POST("/loans/:loan_id/schedule/resync", wh.ResyncSchedule)

	g.POST("/loans/:loan_id/risk-assessment", rh.AssessLoan)

	g.GET("/applicants/:name/compliance", lh.GetCompliance)
	g.GET("/applicants/:name/active-loans", lh.GetActiveLoans)

	g.GET("/worklists/release", wh.ReleaseWorklist)
	g.GET("/worklists/past-due", wh.PastDueWorklist)
	g.GET("/worklists/penalties", wh.PenaltiesWorklist)

	g.GET("/settings/penalty", wh.GetPenaltySettings)
	g.PUT("/settings/penalty", wh.UpdatePenaltySettings)

	g.POST("/users", uh.CreateUser)
	g.GET("/users", uh.ListUsers)
	g.PATCH("/users/:user_id/role", uh.UpdateRole)
	g.DELETE("/users/:user_id", uh.DeleteUser)
}
