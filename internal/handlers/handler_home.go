package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "SUCCESS",
		"message": "API is running",
		"data":    []any{},
	})
}

func getHealth(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}
