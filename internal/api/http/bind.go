package http

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
)

var ErrEmptyBody = errors.New("request body is empty")

// BindStrictJSON decodes the request body into dst and rejects unknown fields.
func BindStrictJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
