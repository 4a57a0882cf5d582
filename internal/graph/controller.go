package graph

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GraphController struct {
	GraphService *GraphService
}

type linkRequest struct {
	FromType     string `json:"from_type" binding:"required"`
	FromID       uint   `json:"from_id" binding:"required"`
	ToType       string `json:"to_type" binding:"required"`
	ToID         uint   `json:"to_id" binding:"required"`
	RelationType string `json:"relation_type" binding:"required"`
}

func (gc *GraphController) Link(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edge, err := gc.GraphService.Link(req.FromType, req.FromID, req.ToType, req.ToID, req.RelationType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": edge})
}

func (gc *GraphController) Neighbors(c *gin.Context) {
	entityType := c.Param("type")
	entityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	neighbors, err := gc.GraphService.Neighbors(entityType, uint(entityID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": neighbors, "count": len(neighbors)})
}

func (gc *GraphController) Unlink(c *gin.Context) {
	entityType := c.Param("type")
	entityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := gc.GraphService.UnlinkEntity(entityType, uint(entityID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entity unlinked"})
}
