package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Report describes store connectivity for the diagnostic endpoint. The shape
// is free-form and not contract-bearing for clients.
type Report struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseName     string   `json:"database_name,omitempty"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Diagnostics probes the document store for the /test endpoint.
type Diagnostics struct {
	db *mongo.Database
}

// NewDiagnostics returns a Diagnostics over the given database.
func NewDiagnostics(db *mongo.Database) *Diagnostics {
	return &Diagnostics{db: db}
}

// Check pings the store and samples collection names. It never returns an
// error; failures are described in the report itself.
func (d *Diagnostics) Check(ctx context.Context) Report {
	report := Report{
		Backend:          "running",
		Database:         "not available",
		ConnectionStatus: "not connected",
		Collections:      []string{},
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.db.Client().Ping(ctx, nil); err != nil {
		report.Database = "error: " + err.Error()
		return report
	}

	report.Database = "available"
	report.DatabaseName = d.db.Name()
	report.ConnectionStatus = "connected"

	names, err := d.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		report.Database = "connected but error: " + err.Error()
		return report
	}
	if len(names) > 10 {
		names = names[:10]
	}
	report.Collections = names
	report.Database = "connected and working"

	return report
}
