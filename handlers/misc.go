package handlers

import (
	"net/http"

	"cutesalon/cron"
	"cutesalon/models"
	"cutesalon/services/verify"
	"cutesalon/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// GetTreatmentsHandler serves the immutable catalog for rendering.
func GetTreatmentsHandler(sections []models.TreatmentSection) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sections": sections})
	}
}

// VerifyRecaptchaHandler exposes the bot gate to the frontend.
func VerifyRecaptchaHandler(gate *verify.RecaptchaGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
			utils.JSONError(c, http.StatusBadRequest, "missing token", "")
			return
		}

		ok, err := gate.Check(c.Request.Context(), input.Token)
		if err != nil {
			utils.JSONError(c, http.StatusBadGateway, "verification unavailable", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": ok})
	}
}

// PurgeHandler enqueues the archival purge job. Guarded by the shared cron
// secret since it is hit by an external scheduler, not a user.
func PurgeHandler(client *asynq.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if secret == "" || auth != "Bearer "+secret {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		if _, err := client.Enqueue(cron.NewPurgeTask(), asynq.MaxRetry(3)); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to enqueue purge", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "purge scheduled"})
	}
}

// HealthHandler reports the latest stored health snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
