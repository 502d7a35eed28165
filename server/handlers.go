package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskql/taskql"
	"github.com/taskql/taskql/csvimport"
	"github.com/taskql/taskql/pkg/apierr"
	"github.com/taskql/taskql/pkg/logger"
	"github.com/taskql/taskql/service"
)

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

type queryResponse struct {
	AST                string         `json:"ast,omitempty"`
	Fields             []string       `json:"fields,omitempty"`
	Errors             []string       `json:"errors,omitempty"`
	ServerFilter       map[string]any `json:"server_filter,omitempty"`
	RequiresClientSide bool           `json:"requires_client_side"`
	Warnings           []string       `json:"warnings,omitempty"`
}

// handleQuery parses and compiles a query without executing it, for
// editor integrations that want diagnostics.
func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.BadRequest("request must carry a query field"))
		return
	}

	pr, res := taskql.CompileQuery(req.Query)
	resp := queryResponse{Errors: pr.Errors}
	for field := range pr.Fields {
		resp.Fields = append(resp.Fields, field)
	}
	if len(pr.Errors) == 0 {
		resp.AST = pr.AST.String()
	}
	if res != nil {
		resp.ServerFilter = res.ServerFilter
		resp.RequiresClientSide = res.RequiresClientSide
		resp.Warnings = res.Warnings
		resp.Errors = append(resp.Errors, res.Errors...)
	}
	c.JSON(http.StatusOK, resp)
}

// handleListTasks executes q against the task service. Without q it
// lists everything.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, warnings, err := s.tasks.QueryTasks(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks":    tasks,
		"warnings": warnings,
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tasks.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var task service.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		writeError(c, apierr.BadRequest("invalid task body"))
		return
	}
	if task.Title == "" {
		writeError(c, apierr.BadRequest("title is required"))
		return
	}
	created, err := s.tasks.CreateTask(c.Request.Context(), &task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		writeError(c, apierr.BadRequest("invalid update body"))
		return
	}
	updated, err := s.tasks.UpdateTask(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tasks.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleImport reads a CSV body, validates it against the workspace
// vocabulary and creates the valid rows in the background. Responds
// immediately with the batch ID to poll.
func (s *Server) handleImport(c *gin.Context) {
	cfg, err := s.cache.Config(c.Request.Context())
	if err != nil {
		writeError(c, apierr.Internal(err))
		return
	}

	res, err := csvimport.New(cfg).Read(c.Request.Body)
	if err != nil {
		writeError(c, apierr.BadRequest(err.Error()))
		return
	}

	id := s.batches.Start(len(res.Tasks))
	go s.runImport(id, res.Tasks)

	c.JSON(http.StatusAccepted, gin.H{
		"batch_id":        id,
		"accepted":        len(res.Tasks),
		"row_errors":      res.RowErrors,
		"skipped_columns": res.SkippedColumns,
	})
}

// runImport creates the accepted tasks one by one, recording progress.
func (s *Server) runImport(id string, tasks []service.Task) {
	ctx := context.Background()
	for i := range tasks {
		if _, err := s.tasks.CreateTask(ctx, &tasks[i]); err != nil {
			s.batches.Record(id, err.Error())
			continue
		}
		s.batches.Record(id, "")
	}
	s.batches.Complete(id, nil)
	logger.Info("import batch finished", "batch_id", id, "tasks", len(tasks))
}

func (s *Server) handleGetBatch(c *gin.Context) {
	progress, ok := s.batches.Get(c.Param("id"))
	if !ok {
		writeError(c, apierr.NotFound("unknown batch"))
		return
	}
	c.JSON(http.StatusOK, progress)
}

// writeError renders an error with its carried status code, defaulting
// to 500 for plain errors.
func writeError(c *gin.Context, err error) {
	var appErr *apierr.AppError
	if !errors.As(err, &appErr) {
		appErr = apierr.Internal(err)
	}
	if appErr.Code >= 500 {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(appErr.Code, gin.H{"message": appErr.Message})
}
