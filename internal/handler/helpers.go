package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// getQueryString retrieves a string query parameter
func getQueryString(c *gin.Context, paramName string) string {
	return c.Query(paramName)
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}
