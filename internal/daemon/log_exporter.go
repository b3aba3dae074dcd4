package daemon

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/1hemant2/Library-Management-System/internal/models"
	"github.com/1hemant2/Library-Management-System/internal/utils"
)

const defaultExportInterval = 30 * time.Second

// AuditExporter periodically drains unexported audit_logs entries
// through utils.ExportData and marks them exported.
type AuditExporter struct {
	Coll     *mongo.Collection
	Interval time.Duration
}

// Start runs the export loop until ctx is cancelled.
func (e *AuditExporter) Start(ctx context.Context) {
	interval := e.Interval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.exportPending(ctx)
			}
		}
	}()
}

func (e *AuditExporter) exportPending(ctx context.Context) {
	cursor, err := e.Coll.Find(ctx, bson.M{"exported": false})
	if err != nil {
		log.Println("audit export: find failed:", err)
		return
	}

	var logs []models.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		log.Println("audit export: decode failed:", err)
		return
	}
	if len(logs) == 0 {
		return
	}

	if err := utils.ExportData(logs); err != nil {
		log.Println("audit export: export failed:", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ID)
	}

	_, err = e.Coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"exported": true}},
	)
	if err != nil {
		log.Println("audit export: mark failed:", err)
	}
}
