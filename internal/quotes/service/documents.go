package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"orcamento_backend/internal/quotes/domain"
	"orcamento_backend/internal/quotes/transport"
	"orcamento_backend/platform/apperr"
	"orcamento_backend/platform/logger"
)

// QuoteDocument is everything the renderer needs to lay out a quote PDF.
// Company is zero when no issuing company is registered; the renderer then
// falls back to the configured identity.
type QuoteDocument struct {
	Quote   transport.QuoteResponse
	Client  ClientInfo
	Company CompanyInfo
}

// Renderer turns a quote into a PDF byte stream.
type Renderer interface {
	RenderQuote(doc QuoteDocument) ([]byte, error)
}

// Sender delivers a quote document to a recipient.
type Sender interface {
	SendQuote(ctx context.Context, to string, doc QuoteDocument, message string, pdf []byte) error
}

// Archiver stores generated documents for later retrieval. Optional; a nil
// archiver disables archiving.
type Archiver interface {
	StoreQuotePDF(ctx context.Context, quoteID uuid.UUID, pdf []byte) (string, error)
}

// DocumentService produces and distributes quote PDFs.
type DocumentService struct {
	quotes   *Service
	catalog  CatalogGateway
	renderer Renderer
	sender   Sender
	archiver Archiver
	log      *logger.Logger
}

func NewDocumentService(quotes *Service, catalog CatalogGateway, renderer Renderer, sender Sender, log *logger.Logger) *DocumentService {
	return &DocumentService{
		quotes:   quotes,
		catalog:  catalog,
		renderer: renderer,
		sender:   sender,
		log:      log,
	}
}

// SetArchiver enables PDF archiving to object storage.
func (d *DocumentService) SetArchiver(archiver Archiver) {
	d.archiver = archiver
}

// RenderPDF builds the quote document and renders it.
func (d *DocumentService) RenderPDF(ctx context.Context, quoteID uuid.UUID) ([]byte, string, error) {
	doc, err := d.buildDocument(ctx, quoteID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := d.renderer.RenderQuote(doc)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "pdf generation failed", err).WithOp("quotes.RenderPDF")
	}

	if d.archiver != nil {
		if key, archiveErr := d.archiver.StoreQuotePDF(ctx, quoteID, pdf); archiveErr != nil {
			d.log.Warn("quote pdf archive failed", "quote_id", quoteID, "error", archiveErr)
		} else {
			d.log.Debug("quote pdf archived", "quote_id", quoteID, "object_key", key)
		}
	}

	filename := fmt.Sprintf("orcamento-%s.pdf", quoteID)
	return pdf, filename, nil
}

// Email renders the quote and sends it to every recipient. Deliveries run
// concurrently; the first failure aborts the rest.
func (d *DocumentService) Email(ctx context.Context, quoteID uuid.UUID, req transport.EmailQuoteRequest) error {
	if d.sender == nil {
		return apperr.BadRequest("email delivery is not configured").WithOp("quotes.Email")
	}

	doc, err := d.buildDocument(ctx, quoteID)
	if err != nil {
		return err
	}

	pdf, err := d.renderer.RenderQuote(doc)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "pdf generation failed", err).WithOp("quotes.Email")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, recipient := range req.Recipients {
		recipient := recipient
		g.Go(func() error {
			if err := d.sender.SendQuote(gctx, recipient, doc, req.Message, pdf); err != nil {
				return fmt.Errorf("send to %s: %w", recipient, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperr.Wrap(apperr.KindInternal, "quote email delivery failed", err).WithOp("quotes.Email")
	}

	d.log.Info("quote emailed", "quote_id", quoteID, "recipients", len(req.Recipients))
	return nil
}

func (d *DocumentService) buildDocument(ctx context.Context, quoteID uuid.UUID) (QuoteDocument, error) {
	quote, err := d.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return QuoteDocument{}, err
	}

	client, found, err := d.catalog.ClientContact(ctx, quote.ClientID)
	if err != nil {
		return QuoteDocument{}, apperr.Wrap(apperr.KindInternal, "client lookup failed", err).WithOp("quotes.buildDocument")
	}
	if !found {
		return QuoteDocument{}, domain.ErrUnknownClient
	}

	company, _, err := d.catalog.CompanyProfile(ctx)
	if err != nil {
		return QuoteDocument{}, apperr.Wrap(apperr.KindInternal, "company lookup failed", err).WithOp("quotes.buildDocument")
	}

	return QuoteDocument{Quote: quote, Client: client, Company: company}, nil
}
