package supplier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugAndIDFor(t *testing.T) {
	assert.Equal(t, "acme_textiles", Slug("Acme Textiles"))
	assert.Equal(t, "supplier_acme_textiles_ltd", IDFor("Acme Textiles\tLtd"))
	assert.Equal(t, "supplier_foo__bar", IDFor("Foo  Bar"))
	assert.Equal(t, "_acme_", Slug(" Acme "))
}

func TestStableID(t *testing.T) {
	assert.Equal(t, "S-1", Supplier{ID: "S-1", SupplierName: "Acme"}.StableID())
	assert.Equal(t, "supplier_acme", Supplier{SupplierName: "Acme"}.StableID())
}

func TestCityToken(t *testing.T) {
	assert.Equal(t, "chennai", CityToken(" Chennai , India"))
	assert.Equal(t, "singapore", CityToken("Singapore"))
	assert.Equal(t, "", CityToken(", Nowhere"))
}

func TestLocationMatches(t *testing.T) {
	tests := []struct {
		ev, sup string
		want    bool
	}{
		{"Chennai, India", "Chennai, India", true},
		{"chennai", "Chennai, India", true},
		{"Port of Chennai, India", "Chennai", true},
		{"Chennai, Tamil Nadu", "Chennai, India", true},
		{"Shenzhen, China", "Shanghai, China", false},
		{"", "Chennai, India", false},
		{"Chennai, India", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LocationMatches(tt.ev, tt.sup), "%q vs %q", tt.ev, tt.sup)
	}
}

func TestWithDefaults(t *testing.T) {
	s := Supplier{SupplierName: "Acme Textiles"}.withDefaults()
	assert.Equal(t, "supplier_acme_textiles", s.ID)
	assert.Equal(t, DefaultProduct, s.Product)
	assert.Equal(t, DefaultCategory, s.Category)
	assert.Equal(t, DefaultLeadTimeDays, s.LeadTimeDays)
	assert.Equal(t, NotAvailable, s.MonthlyVolume)
	assert.Equal(t, NotAvailable, s.AnnualContractValue)
	assert.NotNil(t, s.BackupSuppliers)
}

//Personal.AI order the ending
