// Package http exposes the tracker REST contract over gin.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/highimexy/Bugly/internal/tracker/cache"
	"github.com/highimexy/Bugly/internal/tracker/domain"
)

// Repository is the persistence surface the handlers need.
type Repository interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CreateBug(ctx context.Context, b domain.Bug) (*domain.Bug, error)
	DeleteBug(ctx context.Context, projectID, bugID string) error
}

type Handler struct {
	repo  Repository
	cache *cache.ProjectCache // nil when redis is not configured
}

func NewHandler(repo Repository, projectCache *cache.ProjectCache) *Handler {
	return &Handler{repo: repo, cache: projectCache}
}

// Register wires the tracker routes. The collection endpoints are guarded;
// the single-project read stays public because share links depend on it.
func (h *Handler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("/projects", guard, h.listProjects)
	rg.POST("/projects", guard, h.createProject)
	rg.DELETE("/projects/:projectId", guard, h.deleteProject)
	rg.POST("/bugs", guard, h.createBug)
	rg.DELETE("/projects/:projectId/bugs/:bugId", guard, h.deleteBug)

	rg.GET("/projects/:projectId", h.getProject)
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.repo.ListProjects(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list projects failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) getProject(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("projectId")

	if h.cache != nil {
		if p, err := h.cache.Get(ctx, id); err != nil {
			log.Warn().Err(err).Msg("share cache read failed")
		} else if p != nil {
			c.JSON(http.StatusOK, p)
			return
		}
	}

	p, err := h.repo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Error().Err(err).Str("project_id", id).Msg("get project failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, p); err != nil {
			log.Warn().Err(err).Msg("share cache write failed")
		}
	}
	c.JSON(http.StatusOK, p)
}

type createProjectReq struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project data"})
		return
	}

	created, err := h.repo.CreateProject(c.Request.Context(), domain.Project{
		ID:    req.ID,
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateID) {
			c.JSON(http.StatusConflict, gin.H{"error": "project id already taken"})
			return
		}
		log.Error().Err(err).Msg("create project failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteProject(c *gin.Context) {
	id := c.Param("projectId")

	if err := h.repo.DeleteProject(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Error().Err(err).Str("project_id", id).Msg("delete project failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}

	h.invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

type createBugReq struct {
	ID               string `json:"id" binding:"required"`
	ProjectID        string `json:"projectId" binding:"required"`
	Title            string `json:"title" binding:"required"`
	StepsToReproduce string `json:"stepsToReproduce"`
	ActualResult     string `json:"actualResult"`
	ExpectedResult   string `json:"expectedResult"`
	Priority         string `json:"priority" binding:"required,oneof=Low Medium High"`
	Device           string `json:"device"`
	ScreenshotURL    string `json:"screenshotUrl"`
}

func (h *Handler) createBug(c *gin.Context) {
	var req createBugReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bug data"})
		return
	}

	created, err := h.repo.CreateBug(c.Request.Context(), domain.Bug{
		ID:               req.ID,
		ProjectID:        req.ProjectID,
		Title:            req.Title,
		StepsToReproduce: req.StepsToReproduce,
		ActualResult:     req.ActualResult,
		ExpectedResult:   req.ExpectedResult,
		Priority:         domain.Priority(req.Priority),
		Device:           req.Device,
		ScreenshotURL:    req.ScreenshotURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateID):
			// two sessions raced to the same sequential id; the loser
			// refreshes and retries with the next one
			c.JSON(http.StatusConflict, gin.H{"error": "bug id already taken"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		default:
			log.Error().Err(err).Msg("create bug failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bug"})
		}
		return
	}

	h.invalidate(c.Request.Context(), req.ProjectID)
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteBug(c *gin.Context) {
	projectID := c.Param("projectId")
	bugID := c.Param("bugId")

	if err := h.repo.DeleteBug(c.Request.Context(), projectID, bugID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bug not found"})
			return
		}
		log.Error().Err(err).Str("project_id", projectID).Str("bug_id", bugID).Msg("delete bug failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete bug"})
		return
	}

	h.invalidate(c.Request.Context(), projectID)
	c.JSON(http.StatusOK, gin.H{"message": "bug deleted"})
}

func (h *Handler) invalidate(ctx context.Context, projectID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, projectID); err != nil {
		log.Warn().Err(err).Str("project_id", projectID).Msg("share cache invalidation failed")
	}
}
