package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripnest/tripnest-backend/internal/backend"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxClient      = "backend_client"
)

// WithClient binds a request-scoped backend client to the request cookies.
// When the session verifies, the Firebase UID is stored in the Gin context as well.
func WithClient(factory *backend.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := factory.ForRequest(backend.NewGinCookies(c))
		c.Set(CtxClient, client)

		if u := client.User(c.Request.Context()); u != nil {
			c.Set(CtxFirebaseUID, u.ID)
			c.Set("email", u.Email)
		}

		c.Next()
	}
}

// Client returns the request-scoped backend client set by WithClient.
func Client(c *gin.Context) *backend.Client {
	v, ok := c.Get(CtxClient)
	if !ok {
		return nil
	}
	client, _ := v.(*backend.Client)
	return client
}

// UserFirebaseUID extracts the Firebase UID from the Gin context
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}
