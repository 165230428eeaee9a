package worker

import (
	"context"
	"fmt"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/infra"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ShiftReportWorker renders a closed session's reconciliation summary as a
// PDF and emails it to the back office. Everything here is best-effort: the
// session is already closed and a failed report never affects it.
type ShiftReportWorker struct {
	cashRepo    repository.CashRepository
	mailer      *infra.Mailer
	storagePath string
	recipient   string
}

func NewShiftReportWorker(cashRepo repository.CashRepository, mailer *infra.Mailer, storagePath, recipient string) *ShiftReportWorker {
	return &ShiftReportWorker{
		cashRepo:    cashRepo,
		mailer:      mailer,
		storagePath: storagePath,
		recipient:   recipient,
	}
}

func (w *ShiftReportWorker) Process(ctx context.Context, payload ShiftReportPayload) error {
	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		return fmt.Errorf("shift report: invalid session id %q", payload.SessionID)
	}

	session, err := w.cashRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("shift report: load session: %w", err)
	}
	if session.Status != model.SessionClosed {
		return fmt.Errorf("shift report: session %s is not closed", sessionID)
	}

	movements, err := w.cashRepo.ListMovements(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("shift report: load movements: %w", err)
	}

	pdfPath, err := infra.GenerateShiftReportPDF(session, movements, w.storagePath)
	if err != nil {
		return fmt.Errorf("shift report: render pdf: %w", err)
	}

	if w.recipient == "" {
		log.Debug().Str("session_id", sessionID.String()).Msg("no report recipient configured, pdf kept on disk")
		return nil
	}

	subject := fmt.Sprintf("Shift report %s", session.ClosedAt.Format("2006-01-02 15:04"))
	body := fmt.Sprintf(
		"Session %s closed.\nExpected: %s\nCounted: %s\nDifference: %s\n",
		sessionID, session.ExpectedCash, session.CountedCash, session.Difference,
	)
	if err := w.mailer.SendShiftReport(w.recipient, subject, body, pdfPath); err != nil {
		return fmt.Errorf("shift report: send email: %w", err)
	}

	log.Info().Str("session_id", sessionID.String()).Str("to", w.recipient).Msg("shift report sent")
	return nil
}
