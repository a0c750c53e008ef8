package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a handler into a 500 carrying the panic message.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[panic] id=%s path=%s: %v", c.GetString("request_id"), c.Request.URL.Path, r)
				log.Printf("%s\n", debug.Stack())

				msg := fmt.Sprint(r)
				if err, ok := r.(error); ok {
					msg = err.Error()
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
			}
		}()

		c.Next()
	}
}
