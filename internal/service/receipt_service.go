package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/receipt"
	"github.com/segyhp/family-ledger/internal/repository"
	customError "github.com/segyhp/family-ledger/pkg/errors"
)

// ReceiptService renders proof-of-settlement documents for paid payments.
// It reads the payment and its payer and never writes anything.
type ReceiptService struct {
	PaymentRepo repository.PaymentRepository
	MemberRepo  repository.MemberRepository

	builder  *receipt.Builder
	renderer *receipt.Renderer
	logger   *zap.Logger
}

func NewReceiptService(
	paymentRepo repository.PaymentRepository,
	memberRepo repository.MemberRepository,
	builder *receipt.Builder,
	renderer *receipt.Renderer,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		PaymentRepo: paymentRepo,
		MemberRepo:  memberRepo,
		builder:     builder,
		renderer:    renderer,
		logger:      logger.Named("receipts"),
	}
}

// GenerateReceipt builds the receipt of a paid payment in the requested
// format. Calling it again for the same payment gives the same document.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, id string, opts domain.ReceiptOptions) (*domain.RenderedReceipt, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, customError.WrapInvalidField("id", "must be a valid UUID")
	}
	if opts.Format == "" {
		opts.Format = domain.ReceiptJSON
	}
	if opts.Language == "" {
		opts.Language = domain.LanguageArabic
	}

	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPaymentNotFound(id)
	}
	if err != nil {
		s.logger.Error("get payment failed", zap.String("id", id), zap.Error(err))
		return nil, customError.WrapStoreError(err)
	}

	if payment.Status != domain.StatusPaid {
		return nil, customError.WrapNotPaid(payment.ReferenceNumber, string(payment.Status))
	}

	payer, err := s.MemberRepo.GetByID(ctx, payment.PayerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.Warn("receipt payer no longer exists", zap.String("payer_id", payment.PayerID.String()))
		payer, err = nil, nil
	case err != nil:
		s.logger.Error("get payer failed", zap.String("payer_id", payment.PayerID.String()), zap.Error(err))
		return nil, customError.WrapStoreError(err)
	}

	lang := opts.Language
	if opts.Format == domain.ReceiptPDF && lang == domain.LanguageArabic && !s.renderer.SupportsArabicPDF() {
		lang = domain.LanguageEnglish
	}

	doc := s.builder.Build(payment, payer, lang)
	rendered := &domain.RenderedReceipt{
		Document: doc,
		Format:   opts.Format,
		Filename: receipt.Filename(doc, opts.Format),
	}

	var renderErr error
	switch opts.Format {
	case domain.ReceiptHTML:
		rendered.ContentType = receipt.ContentTypeHTML
		rendered.Content, renderErr = s.renderer.HTML(doc)
	case domain.ReceiptPDF:
		rendered.ContentType = receipt.ContentTypePDF
		rendered.Content, renderErr = s.renderer.PDF(doc)
	default:
		rendered.ContentType = receipt.ContentTypeJSON
	}
	if renderErr != nil {
		s.logger.Error("render receipt failed",
			zap.String("reference", payment.ReferenceNumber),
			zap.String("format", string(opts.Format)),
			zap.Error(renderErr),
		)
		return nil, customError.WrapStoreError(renderErr)
	}

	return rendered, nil
}
