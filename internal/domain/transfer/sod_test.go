package transfer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/transfer"
)

const (
	userAna   = "u-ana"
	userBeto  = "u-beto"
	userCarla = "u-carla"
)

func strictSettings() *entity.SODSettings {
	return &entity.SODSettings{BusinessID: "biz-1"}
}

func TestCheckSOD_PorDefectoPermisivo(t *testing.T) {
	tr := &entity.StockTransfer{CreatedBy: userAna, CheckedBy: userAna, ApprovedBy: userAna}
	actor := entity.Actor{ID: userAna, Roles: []string{entity.RoleBodeguero}}

	err := transfer.CheckSOD(entity.DefaultSODSettings("biz-1"), actor, transfer.TransitionSend, tr)
	assert.NoError(t, err)
}

func TestCheckSOD_CreadorNoPuedeChequear(t *testing.T) {
	s := entity.DefaultSODSettings("biz-1")
	s.AllowCreatorToCheck = false
	tr := &entity.StockTransfer{CreatedBy: userAna}

	err := transfer.CheckSOD(s, entity.Actor{ID: userAna}, transfer.TransitionCheck, tr)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)

	err = transfer.CheckSOD(s, entity.Actor{ID: userBeto}, transfer.TransitionCheck, tr)
	assert.NoError(t, err)
}

func TestCheckSOD_ReceptorNoPuedeCompletar(t *testing.T) {
	tr := &entity.StockTransfer{
		CreatedBy: userAna,
		SentBy:    userBeto,
		ArrivedBy: userCarla,
		Items:     []*entity.StockTransferItem{{ID: "i1", VerifiedBy: userCarla}},
	}

	err := transfer.CheckSOD(strictSettings(), entity.Actor{ID: userCarla}, transfer.TransitionComplete, tr)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)

	err = transfer.CheckSOD(strictSettings(), entity.Actor{ID: "u-dani"}, transfer.TransitionComplete, tr)
	assert.NoError(t, err)
}

func TestCheckSOD_VerificarItemCuentaComoRecepcion(t *testing.T) {
	tr := &entity.StockTransfer{CreatedBy: userAna, SentBy: userBeto, ArrivedBy: userCarla}

	err := transfer.CheckSOD(strictSettings(), entity.Actor{ID: userBeto}, transfer.TransitionVerify, tr)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation, "quien envía no puede recibir")
}

func TestCheckSOD_RolExento(t *testing.T) {
	s := strictSettings()
	s.ExemptRoles = []string{entity.RoleAdmin}
	tr := &entity.StockTransfer{CreatedBy: userAna}

	err := transfer.CheckSOD(s, entity.Actor{ID: userAna, Roles: []string{entity.RoleAdmin}}, transfer.TransitionCheck, tr)
	assert.NoError(t, err)
}

func TestCheckSOD_TransicionesSinReglas(t *testing.T) {
	tr := &entity.StockTransfer{CreatedBy: userAna}
	for _, op := range []transfer.Transition{transfer.TransitionSubmit, transfer.TransitionUpdateItems, transfer.TransitionCancel} {
		assert.NoError(t, transfer.CheckSOD(strictSettings(), entity.Actor{ID: userAna}, op, tr), op)
	}
}

func TestRequiredStaff(t *testing.T) {
	assert.Equal(t, 1, transfer.RequiredStaff(entity.DefaultSODSettings("biz-1")))

	s := entity.DefaultSODSettings("biz-1")
	s.AllowCreatorToCheck = false
	assert.Equal(t, 2, transfer.RequiredStaff(s))

	// todas las reglas activas: creador, chequeador, aprobador y remitente distintos entre sí.
	assert.Equal(t, 4, transfer.RequiredStaff(strictSettings()))
}

func TestStaffingWarnings(t *testing.T) {
	assert.Empty(t, transfer.StaffingWarnings(entity.DefaultSODSettings("biz-1"), 1))

	warnings := transfer.StaffingWarnings(strictSettings(), 3)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "al menos 4")

	s := entity.DefaultSODSettings("biz-1")
	s.MinStaffWarningThreshold = 5
	warnings = transfer.StaffingWarnings(s, 2)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "umbral")
}
