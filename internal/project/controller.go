package project

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"labvault-api/internal/logs"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectController struct {
	ProjectService *ProjectService
	LogService     *logs.LogService
}

func (pc *ProjectController) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID := uint(c.GetFloat64("userID"))
	project, err := pc.ProjectService.CreateProject(req, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project status"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uid := ownerID
	_ = pc.LogService.Log(logs.SystemLog{
		Level:   "INFO",
		Service: "project",
		Action:  "CREATE_PROJECT",
		Message: fmt.Sprintf("Project %q created", project.Name),
		UserID:  &uid,
	}, nil)

	c.JSON(http.StatusCreated, gin.H{"data": project})
}

func (pc *ProjectController) GetProjects(c *gin.Context) {
	var ownerID *uint
	if v := c.Query("owner_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner_id"})
			return
		}
		oid := uint(id)
		ownerID = &oid
	}

	projects, err := pc.ProjectService.GetProjects(ownerID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projects, "count": len(projects)})
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	project, err := pc.ProjectService.GetProjectByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := pc.ProjectService.UpdateProject(uint(id), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		case errors.Is(err, gorm.ErrInvalidData):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (pc *ProjectController) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := pc.ProjectService.DeleteProject(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uid := uint(c.GetFloat64("userID"))
	_ = pc.LogService.Log(logs.SystemLog{
		Level:   "INFO",
		Service: "project",
		Action:  "DELETE_PROJECT",
		Message: fmt.Sprintf("Project %d deleted", id),
		UserID:  &uid,
	}, nil)

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
