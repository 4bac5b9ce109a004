// Package web exposes the assistant over HTTP. The transport is thin: every
// handler reduces to calling the bot or one of the logic components.
package web

import (
	"github.com/gin-gonic/gin"

	"github.com/pablasso/smarttask/internal/analysis"
	"github.com/pablasso/smarttask/internal/bot"
	"github.com/pablasso/smarttask/internal/obs"
	"github.com/pablasso/smarttask/internal/planner"
	"github.com/pablasso/smarttask/internal/task"
)

// Server is the SmartTask web server.
type Server struct {
	bot      *bot.Bot
	tasks    *task.Manager
	goals    *planner.Planner
	analyzer *analysis.Analyzer
	tracker  *obs.Tracker
	router   *gin.Engine
}

// NewServer wires the HTTP routes over an already-constructed bot and store.
func NewServer(b *bot.Bot, store *task.Store, tracker *obs.Tracker) *Server {
	router := gin.Default()

	s := &Server{
		bot:      b,
		tasks:    task.NewManager(store),
		goals:    planner.New(store),
		analyzer: analysis.New(store),
		tracker:  tracker,
		router:   router,
	}

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.GET("/goals", s.handleListGoals)
		api.POST("/goals", s.handleCreateGoal)
		api.GET("/metrics", s.handleMetrics)
	}

	return s
}

// Run starts the web server on the given address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
