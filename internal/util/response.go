package util

import (
	"github.com/gin-gonic/gin"
)

// Fail 统一错误返回，和前端约定的 {"error": msg} 结构
func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"error": msg,
	})
}

// Message 统一提示返回，{"message": msg}
func Message(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"message": msg,
	})
}
