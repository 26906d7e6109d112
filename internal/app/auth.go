package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// basicAuthCredentials configures metricsAuthMiddleware.
type basicAuthCredentials struct {
	enabled  bool
	username string
	password string
}

// matches compares both fields in constant time. Both comparisons always run.
func (b basicAuthCredentials) matches(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(b.username))
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(b.password))
	return userOK&passOK == 1
}

// metricsAuthMiddleware guards /metrics with HTTP Basic Auth. Disabled
// credentials pass every request through.
func metricsAuthMiddleware(creds basicAuthCredentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !creds.enabled {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || !creds.matches(user, pass) {
			c.Header("WWW-Authenticate", `Basic realm="metrics", charset="UTF-8"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
