package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.SODSettingsRepository = (*SODSettingsRepo)(nil)

// SODSettingsRepo configuración de segregación de funciones (transfer_sod_settings).
type SODSettingsRepo struct {
	pool *pgxpool.Pool
}

// NewSODSettingsRepository construye el adaptador.
func NewSODSettingsRepository(pool *pgxpool.Pool) *SODSettingsRepo {
	return &SODSettingsRepo{pool: pool}
}

// Get devuelve (nil, nil) si la empresa no tiene configuración propia.
func (r *SODSettingsRepo) Get(ctx context.Context, businessID string) (*entity.SODSettings, error) {
	query := `
		SELECT business_id, allow_creator_to_check, allow_creator_to_approve, allow_checker_to_approve,
		       allow_creator_to_send, allow_checker_to_send, allow_approver_to_send, allow_creator_to_receive,
		       allow_sender_to_receive, allow_creator_to_complete, allow_sender_to_complete,
		       allow_receiver_to_complete, exempt_roles, min_staff_warning_threshold, updated_by, updated_at
		FROM transfer_sod_settings WHERE business_id = $1`
	var (
		s         entity.SODSettings
		updatedBy *string
	)
	err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&s.BusinessID, &s.AllowCreatorToCheck, &s.AllowCreatorToApprove, &s.AllowCheckerToApprove,
		&s.AllowCreatorToSend, &s.AllowCheckerToSend, &s.AllowApproverToSend, &s.AllowCreatorToReceive,
		&s.AllowSenderToReceive, &s.AllowCreatorToComplete, &s.AllowSenderToComplete,
		&s.AllowReceiverToComplete, &s.ExemptRoles, &s.MinStaffWarningThreshold, &updatedBy, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sod settings: %w", err)
	}
	s.UpdatedBy = deref(updatedBy)
	return &s, nil
}

// Upsert inserta o reemplaza la configuración de la empresa.
func (r *SODSettingsRepo) Upsert(ctx context.Context, s *entity.SODSettings) error {
	query := `
		INSERT INTO transfer_sod_settings (
			business_id, allow_creator_to_check, allow_creator_to_approve, allow_checker_to_approve,
			allow_creator_to_send, allow_checker_to_send, allow_approver_to_send, allow_creator_to_receive,
			allow_sender_to_receive, allow_creator_to_complete, allow_sender_to_complete,
			allow_receiver_to_complete, exempt_roles, min_staff_warning_threshold, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (business_id) DO UPDATE SET
			allow_creator_to_check = EXCLUDED.allow_creator_to_check,
			allow_creator_to_approve = EXCLUDED.allow_creator_to_approve,
			allow_checker_to_approve = EXCLUDED.allow_checker_to_approve,
			allow_creator_to_send = EXCLUDED.allow_creator_to_send,
			allow_checker_to_send = EXCLUDED.allow_checker_to_send,
			allow_approver_to_send = EXCLUDED.allow_approver_to_send,
			allow_creator_to_receive = EXCLUDED.allow_creator_to_receive,
			allow_sender_to_receive = EXCLUDED.allow_sender_to_receive,
			allow_creator_to_complete = EXCLUDED.allow_creator_to_complete,
			allow_sender_to_complete = EXCLUDED.allow_sender_to_complete,
			allow_receiver_to_complete = EXCLUDED.allow_receiver_to_complete,
			exempt_roles = EXCLUDED.exempt_roles,
			min_staff_warning_threshold = EXCLUDED.min_staff_warning_threshold,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		s.BusinessID, s.AllowCreatorToCheck, s.AllowCreatorToApprove, s.AllowCheckerToApprove,
		s.AllowCreatorToSend, s.AllowCheckerToSend, s.AllowApproverToSend, s.AllowCreatorToReceive,
		s.AllowSenderToReceive, s.AllowCreatorToComplete, s.AllowSenderToComplete,
		s.AllowReceiverToComplete, nonNil(s.ExemptRoles), s.MinStaffWarningThreshold, nullable(s.UpdatedBy), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert sod settings: %w", err)
	}
	return nil
}
