package handlers

import (
	"net/http"

	"github.com/arnavshah/triage-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput handles the JSON-based validation request
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	// Basic validation of data structures
	if len(input.Patients) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one patient is required",
		})
		return
	}

	if len(input.Staff) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one staff member is required",
		})
		return
	}

	// Check for duplicate IDs and unknown severities
	patientIDs := make(map[string]bool)
	for _, p := range input.Patients {
		if patientIDs[p.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate patient ID: " + p.ID})
			return
		}
		patientIDs[p.ID] = true

		if p.Severity != "" && !p.Severity.Valid() {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Unknown severity for patient " + p.ID + ": " + string(p.Severity)})
			return
		}
	}

	staffIDs := make(map[string]bool)
	for _, s := range input.Staff {
		if staffIDs[s.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate staff ID: " + s.ID})
			return
		}
		staffIDs[s.ID] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"patient_count": len(input.Patients),
			"staff_count":   len(input.Staff),
		},
	})
}
