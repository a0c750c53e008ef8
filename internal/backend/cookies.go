package backend

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// CookieStore is the cookie jar of the request a client is bound to.
type CookieStore interface {
	Get(name string) (string, bool)
	Set(name, value string, opts CookieOptions)
	Remove(name string, opts CookieOptions)
}

// GinCookies reads request cookies and writes Set-Cookie headers on the response.
type GinCookies struct {
	c *gin.Context
}

func NewGinCookies(c *gin.Context) *GinCookies {
	return &GinCookies{c: c}
}

func (g *GinCookies) Get(name string) (string, bool) {
	v, err := g.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return v, true
}

func (g *GinCookies) Set(name, value string, opts CookieOptions) {
	g.c.SetSameSite(opts.SameSite)
	g.c.SetCookie(name, value, opts.MaxAge, opts.Path, opts.Domain, opts.Secure, opts.HTTPOnly)
}

func (g *GinCookies) Remove(name string, opts CookieOptions) {
	g.c.SetSameSite(opts.SameSite)
	g.c.SetCookie(name, "", -1, opts.Path, opts.Domain, opts.Secure, opts.HTTPOnly)
}

type noopCookies struct{}

func (noopCookies) Get(string) (string, bool)          { return "", false }
func (noopCookies) Set(string, string, CookieOptions) {}
func (noopCookies) Remove(string, CookieOptions)      {}
