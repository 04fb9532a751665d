package email

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	quotesvc "orcamento_backend/internal/quotes/service"
	"orcamento_backend/internal/quotes/transport"
)

type testEmailConfig struct{}

func (testEmailConfig) GetEmailEnabled() bool       { return true }
func (testEmailConfig) GetSMTPHost() string         { return "localhost" }
func (testEmailConfig) GetSMTPPort() int            { return 1025 }
func (testEmailConfig) GetSMTPUsername() string     { return "" }
func (testEmailConfig) GetSMTPPassword() string     { return "" }
func (testEmailConfig) GetEmailFromName() string    { return "Orcamentos" }
func (testEmailConfig) GetEmailFromAddress() string { return "noreply@example.com" }

func testDocument() quotesvc.QuoteDocument {
	return quotesvc.QuoteDocument{
		Quote: transport.QuoteResponse{
			ID:         uuid.New(),
			TotalCents: 15000,
			Items: []transport.LineItemResponse{
				{ServiceName: "Pintura", Quantity: 2},
			},
		},
		Client: quotesvc.ClientInfo{Name: "Ana Lima", Email: "ana@example.com"},
	}
}

func TestBuildMessageAttachesPDF(t *testing.T) {
	sender := NewSMTPSender(testEmailConfig{})

	msg, err := sender.buildMessage("ana@example.com", testDocument(), "segue o documento", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("buildMessage failed: %v", err)
	}
	if got := len(msg.GetAttachments()); got != 1 {
		t.Errorf("expected 1 attachment, got %d", got)
	}
}

func TestBuildMessageRejectsBadRecipient(t *testing.T) {
	sender := NewSMTPSender(testEmailConfig{})

	if _, err := sender.buildMessage("not-an-address", testDocument(), "", []byte("%PDF-1.4")); err == nil {
		t.Fatal("expected error for invalid recipient")
	}
}

func TestRenderQuoteBodyEscapesHTML(t *testing.T) {
	doc := testDocument()
	doc.Client.Name = "<script>alert(1)</script>"

	body := renderQuoteBody(doc, "mensagem <b>livre</b>")
	if strings.Contains(body, "<script>") {
		t.Error("client name was not escaped")
	}
	if strings.Contains(body, "<b>livre</b>") {
		t.Error("custom message was not escaped")
	}
}
