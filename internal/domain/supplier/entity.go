// Package supplier models the supplier reference roster and the transient
// risk overlay merged onto it.
package supplier

import (
	"context"
	"regexp"
	"strings"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/risk"
)

// Defaults applied to base records that omit optional attributes.
const (
	DefaultProduct      = "General Goods"
	DefaultCategory     = "manufacturing"
	DefaultLeadTimeDays = 7
	NotAvailable        = "N/A"
	CriticalityHigh     = "high"
	CriticalityMedium   = "medium"
	idPrefix            = "supplier_"
)

// ActiveRisk is the condensed view of a Risk embedded in a Supplier overlay.
type ActiveRisk struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Summary         string `json:"summary"`
	Mitigation      string `json:"mitigation"`
	EstimatedDelay  string `json:"estimated_delay"`
	FinancialImpact string `json:"financial_impact"`
}

// Supplier is one sourcing partner.  The base attributes are long-lived
// reference data; CurrentRiskLevel, RiskScore, ActiveRiskIDs and ActiveRisks
// form the overlay recomputed on every merge.
type Supplier struct {
	ID                  string   `json:"id" yaml:"id"`
	SupplierName        string   `json:"supplier_name" yaml:"supplier_name"`
	Location            string   `json:"location" yaml:"location"`
	Lat                 float64  `json:"lat" yaml:"lat"`
	Lng                 float64  `json:"lng" yaml:"lng"`
	Product             string   `json:"product" yaml:"product"`
	Category            string   `json:"category" yaml:"category"`
	LeadTimeDays        int      `json:"lead_time_days" yaml:"lead_time_days"`
	MonthlyVolume       string   `json:"monthly_volume" yaml:"monthly_volume"`
	AnnualContractValue string   `json:"annual_contract_value" yaml:"annual_contract_value"`
	Criticality         string   `json:"criticality" yaml:"criticality"`
	BackupSuppliers     []string `json:"backup_suppliers" yaml:"backup_suppliers"`

	CurrentRiskLevel risk.Level   `json:"current_risk_level" yaml:"-"`
	RiskScore        int          `json:"risk_score" yaml:"-"`
	ActiveRiskIDs    []string     `json:"active_risk_ids" yaml:"-"`
	ActiveRisks      []ActiveRisk `json:"active_risks" yaml:"-"`
}

// Store loads the supplier reference roster.
type Store interface {
	LoadSuppliers(ctx context.Context) ([]Supplier, error)
}

var whitespace = regexp.MustCompile(`\s`)

// Slug lowercases name and replaces every whitespace character with an
// underscore. Runs are not collapsed.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "_")
}

// IDFor returns the stable identifier derived from a supplier name.
func IDFor(name string) string {
	return idPrefix + Slug(name)
}

// StableID returns s.ID, or the id derived from the supplier name when unset.
func (s Supplier) StableID() string {
	if s.ID != "" {
		return s.ID
	}
	return IDFor(s.SupplierName)
}

// CityToken is the text before the first comma, trimmed and lowercased.
func CityToken(location string) string {
	city := location
	if i := strings.Index(location, ","); i >= 0 {
		city = location[:i]
	}
	return strings.ToLower(strings.TrimSpace(city))
}

// LocationMatches reports whether an event location refers to the same place
// as a supplier location: either full string contains the other, or either
// city token contains the other.  Comparison is case-insensitive and empty
// inputs never match.
func LocationMatches(eventLocation, supplierLocation string) bool {
	ev := strings.ToLower(strings.TrimSpace(eventLocation))
	sup := strings.ToLower(strings.TrimSpace(supplierLocation))
	if ev == "" || sup == "" {
		return false
	}
	if strings.Contains(sup, ev) || strings.Contains(ev, sup) {
		return true
	}
	evCity, supCity := CityToken(ev), CityToken(sup)
	if evCity == "" || supCity == "" {
		return false
	}
	return strings.Contains(supCity, evCity) || strings.Contains(evCity, supCity)
}

// withDefaults fills unset optional base attributes.
func (s Supplier) withDefaults() Supplier {
	s.ID = s.StableID()
	if s.Product == "" {
		s.Product = DefaultProduct
	}
	if s.Category == "" {
		s.Category = DefaultCategory
	}
	if s.LeadTimeDays == 0 {
		s.LeadTimeDays = DefaultLeadTimeDays
	}
	if s.MonthlyVolume == "" {
		s.MonthlyVolume = NotAvailable
	}
	if s.AnnualContractValue == "" {
		s.AnnualContractValue = NotAvailable
	}
	if s.BackupSuppliers == nil {
		s.BackupSuppliers = []string{}
	} else {
		s.BackupSuppliers = append([]string(nil), s.BackupSuppliers...)
	}
	return s
}

//Personal.AI order the ending
