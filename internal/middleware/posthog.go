package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIEventTracker is the part of the analytics client the request tracker needs.
type APIEventTracker interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

// untrackedPaths are never reported to analytics.
var untrackedPaths = map[string]bool{
	"/health": true,
}

// PosthogMiddleware reports every successful authenticated request as an analytics event.
// The event name is derived from the route template, e.g.
// "/api/v1/tenants/:tenant_id/jobs/:job_id/closing" becomes "api_v1_tenants_jobs_closing".
func PosthogMiddleware(tracker APIEventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker == nil || !tracker.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		eventName := routeEventName(c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if tenantID := c.Param("tenant_id"); tenantID != "" {
			props["tenant_id"] = tenantID
		}
		if jobID := c.Param("job_id"); jobID != "" {
			props["job_id"] = jobID
		}

		tracker.Enqueue(userID, eventName, props)
	}
}

// routeEventName drops path parameters from a route template and joins the rest with underscores.
func routeEventName(fullPath string) string {
	var parts []string
	for _, seg := range strings.Split(strings.Trim(fullPath, "/"), "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "_")
}
