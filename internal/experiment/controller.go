package experiment

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"labvault-api/internal/logs"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ExperimentController struct {
	ExperimentService *ExperimentService
	LogService        *logs.LogService
}

func (ec *ExperimentController) CreateExperiment(c *gin.Context) {
	var req CreateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creatorID := uint(c.GetFloat64("userID"))
	experiment, err := ec.ExperimentService.CreateExperiment(req, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid experiment status"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uid := creatorID
	_ = ec.LogService.Log(logs.SystemLog{
		Level:   "INFO",
		Service: "experiment",
		Action:  "CREATE_EXPERIMENT",
		Message: fmt.Sprintf("Experiment %q created in project %d", experiment.Name, experiment.ProjectID),
		UserID:  &uid,
	}, nil)

	c.JSON(http.StatusCreated, gin.H{"data": experiment})
}

func (ec *ExperimentController) GetExperiments(c *gin.Context) {
	var projectID *uint
	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		pid := uint(id)
		projectID = &pid
	}

	experiments, err := ec.ExperimentService.GetExperiments(projectID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": experiments, "count": len(experiments)})
}

func (ec *ExperimentController) GetExperiment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	experiment, err := ec.ExperimentService.GetExperimentByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "experiment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": experiment})
}

func (ec *ExperimentController) UpdateExperiment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req UpdateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	experiment, err := ec.ExperimentService.UpdateExperiment(uint(id), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "experiment not found"})
		case errors.Is(err, gorm.ErrInvalidData):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid experiment status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": experiment})
}

func (ec *ExperimentController) DeleteExperiment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := ec.ExperimentService.DeleteExperiment(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "experiment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "experiment deleted"})
}
