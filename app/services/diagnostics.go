package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
)

const (
	maxListedCollections = 10
	maxDiagnosticMessage = 50
)

// StoreReport is the body of GET /test.
type StoreReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type DiagnosticService struct {
	db docstore.Database
}

func NewDiagnosticService(db docstore.Database) *DiagnosticService {
	return &DiagnosticService{db: db}
}

// Report checks the store by listing its collections. It never fails;
// problems are described in the report itself.
func (s *DiagnosticService) Report(ctx context.Context) StoreReport {
	rep := StoreReport{
		Backend:          "✅ Running",
		DatabaseURL:      setFlag(config.DatabaseURLSet()),
		DatabaseName:     setFlag(config.DatabaseNameSet()),
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if s.db == nil || s.db.Driver() == "offline" {
		rep.Database = "⚠️ Available but not initialized"
		return rep
	}

	rep.ConnectionStatus = "Connected"
	names, err := s.db.Collections(ctx)
	if err != nil {
		rep.Database = "⚠️ Connected but Error: " + clip(err.Error(), maxDiagnosticMessage)
		return rep
	}

	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	rep.Database = "✅ Connected & Working"
	rep.Collections = append(rep.Collections, names...)
	return rep
}

func setFlag(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
