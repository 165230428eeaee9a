package infra

// pdf.go — shift report rendering using go-pdf/fpdf.
// Produces an A5 reconciliation summary for a closed cash session:
//   - Kiosk and session identifiers, open/close timestamps
//   - Expected vs counted cash with the variance highlighted
//   - Manual movement listing (type, amount, reason)
//
// The output file is saved to storagePath/shift_<session-id>.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateShiftReportPDF renders the reconciliation report for a closed
// session. storagePath is created when missing. Returns the absolute path of
// the generated file.
func GenerateShiftReportPDF(session *model.CashSession, movements []model.CashMovement, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("shift_%s.pdf", session.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Shift Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Cash session reconciliation", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Session info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Session: %s", session.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Kiosk:   %s", session.KioskID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Opened:  %s", session.OpenedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	if session.ClosedAt != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Closed:  %s", session.ClosedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Balances ─────────────────────────────────────────────────────────────
	labelW := contentW * 0.6
	valueW := contentW * 0.4

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 6, "Initial cash:", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 6, "$"+session.InitialCash.StringFixed(2), "", 1, "R", false, 0, "")

	if session.ExpectedCash != nil {
		pdf.CellFormat(labelW, 6, "Expected cash:", "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, "$"+session.ExpectedCash.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if session.CountedCash != nil {
		pdf.CellFormat(labelW, 6, "Counted cash:", "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, "$"+session.CountedCash.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if session.Difference != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelW, 7, "Difference:", "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 7, "$"+session.Difference.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Manual movements ─────────────────────────────────────────────────────
	if len(movements) > 0 {
		pdf.Ln(2)
		pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
		pdf.Ln(2)

		col1 := contentW * 0.15
		col2 := contentW * 0.25
		col3 := contentW * 0.60

		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1, 5, "Type", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "Amount", "B", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 5, "Reason", "B", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, m := range movements {
			pdf.CellFormat(col1, 5, m.Type, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, "$"+m.Amount.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(col3, 5, "  "+truncate(m.Reason, 40), "", 1, "L", false, 0, "")
		}
	}

	// ── Notes ────────────────────────────────────────────────────────────────
	if session.Notes != nil && *session.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Notes: "+*session.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// truncate shortens s to at most max characters, cutting on rune boundaries
// so multi-byte reasons never end in a broken sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
