package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RunRecord is the persisted summary of one optimization run.
type RunRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
	RequestID     string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	SetID         string             `bson:"set_id" json:"set_id"`
	ItemCount     int                `bson:"item_count" json:"item_count"`
	Status        string             `bson:"status" json:"status"` // e.g. "planned", "infeasible", "unsatisfiable"
	TotalCost     float64            `bson:"total_cost,omitempty" json:"total_cost,omitempty"`
	PurchaseCount int                `bson:"purchase_count,omitempty" json:"purchase_count,omitempty"`
	VendorCount   int                `bson:"vendor_count,omitempty" json:"vendor_count,omitempty"`
	Unsatisfiable []string           `bson:"unsatisfiable,omitempty" json:"unsatisfiable,omitempty"`
	ArtifactPath  string             `bson:"artifact_path,omitempty" json:"artifact_path,omitempty"`
	DurationMs    int64              `bson:"duration_ms" json:"duration_ms"`
	Error         string             `bson:"error,omitempty" json:"error,omitempty"`
}
