package excel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
)

const sheet = "Verification"

// Service renders a claim's verification outcomes as an XLSX workbook for
// claim handlers.
type Service struct {
	documents ports.DocumentRepository
	logger    *slog.Logger
}

func NewService(documents ports.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{documents: documents, logger: logger}
}

// ExportClaimXLSX returns a workbook with one row per document of the claim.
func (s *Service) ExportClaimXLSX(ctx context.Context, claimID string) ([]byte, error) {
	start := time.Now()

	docs, err := s.documents.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("list claim documents: %w", err)
	}

	f := excelize.NewFile()
	// Rename the default sheet so the workbook ships a single tab.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document ID",
		"Declared Type",
		"Filename",
		"Status",
		"Verification",
		"Compliant",
		"Confidence",
		"Issues",
		"Uploaded",
		"Verified",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, doc := range docs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, doc.ID)
		write(2, domain.NormalizeCategory(doc.DeclaredType))
		write(3, doc.Filename)
		write(4, string(doc.Status))
		write(5, string(doc.VerificationStatus))
		write(6, doc.Compliant)
		write(7, doc.Confidence)
		write(8, truncate(doc.ComplianceIssues, 140))
		write(9, doc.CreatedAt.Format("2006-01-02 15:04"))
		if doc.VerifiedAt != nil {
			write(10, doc.VerifiedAt.Format("2006-01-02 15:04"))
		} else {
			write(10, "")
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "C", "C", 28)
	_ = f.SetColWidth(sheet, "D", "E", 16)
	_ = f.SetColWidth(sheet, "F", "G", 12)
	_ = f.SetColWidth(sheet, "H", "H", 60)
	_ = f.SetColWidth(sheet, "I", "J", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export_claim_xlsx",
		"claim_id", claimID,
		"rows", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
