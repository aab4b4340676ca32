package server

import (
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/server/handlers"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

// Handlers groups the route handlers mounted under /api.
type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Todos       *handlers.TodoHandler
	Streak      *handlers.StreakHandler
	Commitments *handlers.CommitmentHandler
	Profile     *handlers.ProfileHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, auth middleware.Authenticator) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)

		api.POST("/auth/signup", h.Auth.SignUp)
		api.POST("/auth/signin", h.Auth.SignIn)
		api.POST("/auth/signout", h.Auth.SignOut)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(auth))
	{
		authed.GET("/todos", h.Todos.ListTodos)
		authed.GET("/todos/:date", h.Todos.GetTodo)
		authed.PUT("/todos/:date", h.Todos.PutTodo)
		authed.DELETE("/todos/:date", h.Todos.DeleteTodo)

		authed.GET("/streak", h.Streak.GetStreak)
		authed.GET("/streak/month", h.Streak.GetMonth)

		authed.GET("/commitments", h.Commitments.ListCommitments)
		authed.POST("/commitments", h.Commitments.CreateCommitment)
		authed.GET("/commitments/stats", h.Commitments.Stats)
		authed.GET("/commitments/categories", h.Commitments.Categories)
		authed.POST("/commitments/bulk", h.Commitments.BulkComplete)
		authed.GET("/commitments/:id", h.Commitments.GetCommitment)
		authed.PATCH("/commitments/:id", h.Commitments.UpdateCommitment)
		authed.DELETE("/commitments/:id", h.Commitments.DeleteCommitment)
		authed.POST("/commitments/:id/toggle", h.Commitments.ToggleCommitment)

		authed.GET("/profile", h.Profile.GetProfile)
		authed.PATCH("/profile", h.Profile.UpdateProfile)
		authed.DELETE("/profile", h.Profile.DeleteAccount)
		authed.GET("/profile/stats", h.Profile.Stats)
		authed.GET("/profile/export", h.Profile.Export)
		authed.POST("/profile/password", h.Profile.ChangePassword)
	}
}
