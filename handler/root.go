package handler

import (
	"net/http"
	"time"

	"github.com/AnTengye/contractmock/service"
	"github.com/gin-gonic/gin"
)

// RootMessage is the plain-text body served at "/".
const RootMessage = "Insurance Contract Mock API is running"

type RootHandler struct {
	store *service.ContractStore
}

func NewRootHandler(store *service.ContractStore) *RootHandler {
	return &RootHandler{store: store}
}

func (h *RootHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, RootMessage)
}

// Health reports liveness and the current record count
func (h *RootHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"contracts": h.store.Count(),
	})
}
