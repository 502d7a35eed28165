// Package server exposes the query engine and the task service over
// HTTP. Handlers validate request shapes and delegate; all filtering
// logic lives in the engine packages.
package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/taskql/taskql/batch"
	"github.com/taskql/taskql/service"
	"github.com/taskql/taskql/workspace"
)

// TaskService is the slice of the service client the handlers need.
type TaskService interface {
	QueryTasks(ctx context.Context, query string) ([]service.Task, []string, error)
	GetTask(ctx context.Context, id string) (*service.Task, error)
	CreateTask(ctx context.Context, task *service.Task) (*service.Task, error)
	UpdateTask(ctx context.Context, id string, fields map[string]any) (*service.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Server wires the handlers to their collaborators.
type Server struct {
	tasks   TaskService
	cache   *workspace.Cache
	batches *batch.Tracker
}

// New builds a Server.
func New(tasks TaskService, cache *workspace.Cache, batches *batch.Tracker) *Server {
	return &Server{
		tasks:   tasks,
		cache:   cache,
		batches: batches,
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	{
		v1.POST("/query", s.handleQuery)
		v1.GET("/tasks", s.handleListTasks)
		v1.GET("/tasks/:id", s.handleGetTask)
		v1.POST("/tasks", s.handleCreateTask)
		v1.PATCH("/tasks/:id", s.handleUpdateTask)
		v1.DELETE("/tasks/:id", s.handleDeleteTask)
		v1.POST("/import", s.handleImport)
		v1.GET("/batches/:id", s.handleGetBatch)
	}
	return r
}
