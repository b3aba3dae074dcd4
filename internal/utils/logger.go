package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/1hemant2/Library-Management-System/internal/models"
)

type Logger struct {
	Collection *mongo.Collection
}

func (l *Logger) Log(ctx context.Context, entity, action, performedBy string, data any) error {
	log := models.AuditLog{
		Timestamp:   time.Now(),
		Entity:      entity,
		Action:      action,
		PerformedBy: performedBy,
		Data:        data,
	}
	_, err := l.Collection.InsertOne(ctx, log)
	return err
}
