package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pablasso/smarttask/internal/intent"
	"github.com/pablasso/smarttask/internal/task"
)

// requestTimeout bounds one command-processing call end to end.
const requestTimeout = 90 * time.Second

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type createTaskRequest struct {
	Title     string `json:"title" binding:"required"`
	Priority  string `json:"priority"`
	DuePhrase string `json:"due"`
}

type updateTaskRequest struct {
	Status string `json:"status" binding:"required"`
}

type createGoalRequest struct {
	Description string `json:"description" binding:"required"`
	Horizon     string `json:"horizon"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	c.JSON(http.StatusOK, chatResponse{Reply: s.bot.Process(ctx, req.Message)})
}

func (s *Server) handleListTasks(c *gin.Context) {
	f := task.Filter{
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
	}
	if top := c.Query("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid top parameter"})
			return
		}
		f.Top = n
	}

	tasks := s.tasks.ListTasks(f)
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	due := intent.ResolveDatePhrase(req.DuePhrase, time.Now())
	t, created, err := s.tasks.AddTask(req.Title, req.Priority, due)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusConflict, gin.H{"error": "task already exists", "task": t})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": t})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := s.tasks.UpdateStatus(id, req.Status)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := s.tasks.DeleteTask(id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) handleListGoals(c *gin.Context) {
	goals := s.goals.ListGoals()
	if goals == nil {
		goals = []task.Goal{}
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := s.goals.SetGoal(req.Description, req.Horizon)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": g})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Metrics())
}

// writeDomainError maps the error taxonomy onto HTTP status codes.
func writeDomainError(c *gin.Context, err error) {
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
		return
	}
	var nferr *task.NotFoundError
	if errors.As(err, &nferr) {
		c.JSON(http.StatusNotFound, gin.H{"error": nferr.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
