package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows localhost plus the comma-separated configured domains.
func ConfigCORS(allowedCORSDomains string) gin.HandlerFunc {
	var allowedDomains []string
	for _, domain := range strings.Split(allowedCORSDomains, ",") {
		if domain = strings.TrimSpace(domain); domain != "" {
			allowedDomains = append(allowedDomains, domain)
		}
	}

	return cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			if strings.Contains(origin, "localhost") {
				return true
			}

			for _, domain := range allowedDomains {
				if strings.HasSuffix(origin, domain) {
					return true
				}
			}

			return false
		},
		MaxAge: 12 * time.Hour,
	})
}
