package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"garage_hub/internal/store"
)

// Problem is the error body every failing endpoint returns. The type tag is
// stable for programmatic handling; detail is for humans.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func problem(c *gin.Context, status int, ptype, title, detail string) {
	c.JSON(status, Problem{
		Type:     ptype,
		Title:    title,
		Detail:   detail,
		Instance: c.Request.URL.Path,
	})
}

func validationProblem(c *gin.Context, detail string) {
	problem(c, http.StatusBadRequest, "validation_error", "Invalid request", detail)
}

func notFoundProblem(c *gin.Context, detail string) {
	problem(c, http.StatusNotFound, "not_found", "Not found", detail)
}

func conflictProblem(c *gin.Context, detail string) {
	problem(c, http.StatusConflict, "conflict", "Conflict", detail)
}

func rateLimitedProblem(c *gin.Context) {
	problem(c, http.StatusTooManyRequests, "rate_limited", "Rate limited",
		"The image provider is temporarily out of capacity, try again later")
}

// internalProblem keeps the detail generic regardless of the underlying
// cause so nothing internal leaks to the client.
func internalProblem(c *gin.Context) {
	problem(c, http.StatusInternalServerError, "internal_error", "Internal server error",
		"Something went wrong")
}

// currentPrincipal rebuilds the caller identity from the JWT claims the auth
// middleware placed in the context. Claims decode as float64 via JSON.
func currentPrincipal(c *gin.Context) store.Principal {
	var p store.Principal
	if v, ok := c.Get("user_id"); ok {
		if f, ok := v.(float64); ok {
			p.UserID = uint(f)
		}
	}
	if v, ok := c.Get("org_id"); ok {
		if f, ok := v.(float64); ok {
			id := uint(f)
			p.OrgID = &id
		}
	}
	if v, ok := c.Get("role"); ok {
		p.Role, _ = v.(string)
	}
	return p
}
