package utils

import (
	"fmt"

	"github.com/1hemant2/Library-Management-System/internal/models"
)

// ExportData ships audit entries to the downstream sink. Stdout until
// the reporting pipeline lands.
func ExportData(logs []models.AuditLog) error {
	for _, log := range logs {
		fmt.Println(log.Timestamp, log.Entity, log.Action, log.Data)
	}
	return nil
}
