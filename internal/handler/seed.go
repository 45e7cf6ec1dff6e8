package handler

import (
	"github.com/gin-gonic/gin"

	"forecastcrm/internal/seed"
)

type SeedHandler struct {
	Seeder *seed.Seeder
}

// Register puts the seed route on the engine, unauthenticated, so a fresh
// deployment can be bootstrapped before any user exists.
func (h *SeedHandler) Register(r *gin.Engine) {
	r.POST("/api/seed", h.seed)
}

func (h *SeedHandler) seed(c *gin.Context) {
	users, err := h.Seeder.Run(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"message": "database seeded successfully", "users": users}, nil)
}
