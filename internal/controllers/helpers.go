package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// errorBody is the shared error response shape.
func errorBody(code, message string, details ...string) gin.H {
	body := gin.H{"code": code, "message": message}
	if len(details) > 0 {
		body["details"] = details
	}
	return body
}

// currentUserID returns the authenticated user id as a string, or "" for
// anonymous requests that passed through OptionalAuth. JWT claims decode
// numbers as float64.
func currentUserID(c *gin.Context) string {
	v, ok := c.Get("user_id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case float64:
		return strconv.FormatUint(uint64(id), 10)
	case string:
		return id
	}
	return ""
}
