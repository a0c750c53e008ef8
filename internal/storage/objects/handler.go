package objects

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *BucketService
}

func NewHandler(svc *BucketService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/create-bucket", h.createBucket)
}

func (h *Handler) createBucket(c *gin.Context) {
	res, err := h.svc.EnsureBucket(c.Request.Context())
	if err != nil {
		log.Printf("[storage] ensure bucket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !res.Created {
		c.JSON(http.StatusOK, gin.H{"message": "Bucket already exists", "buckets": res.Buckets})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bucket created successfully",
		"data":    res.Data,
		"buckets": res.Buckets,
	})
}
