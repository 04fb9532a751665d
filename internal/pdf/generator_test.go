package pdf

import (
	"testing"

	quotesvc "orcamento_backend/internal/quotes/service"
)

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{150, "R$ 1,50"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-9990, "-R$ 99,90"},
	}
	for _, tc := range cases {
		if got := formatCents(tc.cents); got != tc.want {
			t.Errorf("formatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

type testCompanyConfig struct{}

func (testCompanyConfig) GetCompanyName() string    { return "Config Ltda" }
func (testCompanyConfig) GetCompanyAddress() string { return "Rua Config, 1" }
func (testCompanyConfig) GetCompanyContact() string { return "contato@config.com" }

func TestIdentityPrefersRegisteredCompany(t *testing.T) {
	g := NewGenerator(testCompanyConfig{})

	doc := quotesvc.QuoteDocument{
		Company: quotesvc.CompanyInfo{
			Name:    "Empresa Cadastrada",
			Address: "Av. Central, 1000",
			Phone:   "+5511987654321",
			Email:   "vendas@empresa.com",
		},
	}
	name, address, contact := g.identity(doc)
	if name != "Empresa Cadastrada" || address != "Av. Central, 1000" {
		t.Errorf("identity = (%q, %q), want registered company", name, address)
	}
	if contact != "+5511987654321  vendas@empresa.com" {
		t.Errorf("contact = %q, want phone and email", contact)
	}
}

func TestIdentityFallsBackToConfig(t *testing.T) {
	g := NewGenerator(testCompanyConfig{})

	name, address, contact := g.identity(quotesvc.QuoteDocument{})
	if name != "Config Ltda" || address != "Rua Config, 1" || contact != "contato@config.com" {
		t.Errorf("identity = (%q, %q, %q), want configured fallback", name, address, contact)
	}
}
