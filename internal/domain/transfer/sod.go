package transfer

import (
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// Stage papel que una persona cumple dentro de un traslado.
type Stage string

const (
	StageCreator   Stage = "creator"
	StageChecker   Stage = "checker"
	StageApprover  Stage = "approver"
	StageSender    Stage = "sender"
	StageReceiver  Stage = "receiver"
	StageCompleter Stage = "completer"
)

var stages = []Stage{StageCreator, StageChecker, StageApprover, StageSender, StageReceiver, StageCompleter}

// sodRule "¿puede quien cumplió prior cumplir también current?".
type sodRule struct {
	prior   Stage
	current Stage
	allowed func(s *entity.SODSettings) bool
}

var sodRules = []sodRule{
	{StageCreator, StageChecker, func(s *entity.SODSettings) bool { return s.AllowCreatorToCheck }},
	{StageCreator, StageApprover, func(s *entity.SODSettings) bool { return s.AllowCreatorToApprove }},
	{StageChecker, StageApprover, func(s *entity.SODSettings) bool { return s.AllowCheckerToApprove }},
	{StageCreator, StageSender, func(s *entity.SODSettings) bool { return s.AllowCreatorToSend }},
	{StageChecker, StageSender, func(s *entity.SODSettings) bool { return s.AllowCheckerToSend }},
	{StageApprover, StageSender, func(s *entity.SODSettings) bool { return s.AllowApproverToSend }},
	{StageCreator, StageReceiver, func(s *entity.SODSettings) bool { return s.AllowCreatorToReceive }},
	{StageSender, StageReceiver, func(s *entity.SODSettings) bool { return s.AllowSenderToReceive }},
	{StageCreator, StageCompleter, func(s *entity.SODSettings) bool { return s.AllowCreatorToComplete }},
	{StageSender, StageCompleter, func(s *entity.SODSettings) bool { return s.AllowSenderToComplete }},
	{StageReceiver, StageCompleter, func(s *entity.SODSettings) bool { return s.AllowReceiverToComplete }},
}

// StageOf papel que ejerce quien ejecuta la transición (vacío si no aplica SOD).
func StageOf(tr Transition) Stage {
	switch tr {
	case TransitionCheck:
		return StageChecker
	case TransitionApprove:
		return StageApprover
	case TransitionSend:
		return StageSender
	case TransitionArrive, TransitionVerify:
		return StageReceiver
	case TransitionComplete:
		return StageCompleter
	}
	return ""
}

// actorsFor IDs de quienes ya ejercieron el papel en el traslado.
func actorsFor(t *entity.StockTransfer, st Stage) []string {
	switch st {
	case StageCreator:
		return []string{t.CreatedBy}
	case StageChecker:
		return []string{t.CheckedBy}
	case StageApprover:
		return []string{t.ApprovedBy}
	case StageSender:
		return []string{t.SentBy}
	case StageReceiver:
		ids := []string{t.ArrivedBy, t.VerifiedBy}
		for _, it := range t.Items {
			ids = append(ids, it.VerifiedBy)
		}
		return ids
	}
	return nil
}

// IsExempt indica si el actor tiene algún rol exento de SOD.
func IsExempt(settings *entity.SODSettings, actor entity.Actor) bool {
	if settings == nil {
		return false
	}
	for _, role := range settings.ExemptRoles {
		if actor.HasRole(role) {
			return true
		}
	}
	return false
}

// CheckSOD verifica que el actor pueda ejecutar tr sobre t según la configuración de la empresa.
// La configuración se recibe explícitamente en cada evaluación, nunca desde estado global.
func CheckSOD(settings *entity.SODSettings, actor entity.Actor, tr Transition, t *entity.StockTransfer) error {
	current := StageOf(tr)
	if current == "" || settings == nil || IsExempt(settings, actor) {
		return nil
	}
	for _, rule := range sodRules {
		if rule.current != current || rule.allowed(settings) {
			continue
		}
		for _, id := range actorsFor(t, rule.prior) {
			if id != "" && id == actor.ID {
				return fmt.Errorf("%w: quien es %s no puede ser %s", domain.ErrPolicyViolation, rule.prior, rule.current)
			}
		}
	}
	return nil
}

// RequiredStaff número mínimo de personas distintas que exige la configuración para
// completar un traslado (coloreo exacto del grafo de papeles incompatibles).
func RequiredStaff(settings *entity.SODSettings) int {
	if settings == nil {
		return 1
	}
	index := make(map[Stage]int, len(stages))
	for i, st := range stages {
		index[st] = i
	}
	conflicts := make([][]bool, len(stages))
	for i := range conflicts {
		conflicts[i] = make([]bool, len(stages))
	}
	for _, rule := range sodRules {
		if rule.allowed(settings) {
			continue
		}
		a, b := index[rule.prior], index[rule.current]
		conflicts[a][b] = true
		conflicts[b][a] = true
	}
	colors := make([]int, len(stages))
	for k := 1; k <= len(stages); k++ {
		for i := range colors {
			colors[i] = -1
		}
		if colorable(conflicts, colors, 0, k) {
			return k
		}
	}
	return len(stages)
}

func colorable(conflicts [][]bool, colors []int, node, k int) bool {
	if node == len(colors) {
		return true
	}
	for c := 0; c < k; c++ {
		ok := true
		for other := 0; other < node; other++ {
			if conflicts[node][other] && colors[other] == c {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		colors[node] = c
		if colorable(conflicts, colors, node+1, k) {
			return true
		}
	}
	colors[node] = -1
	return false
}

// StaffingWarnings advierte (sin bloquear) cuando la configuración no se puede cumplir
// con el personal disponible.
func StaffingWarnings(settings *entity.SODSettings, availableStaff int) []string {
	var warnings []string
	required := RequiredStaff(settings)
	if availableStaff < required {
		warnings = append(warnings, fmt.Sprintf(
			"la configuración exige al menos %d personas distintas por traslado y solo hay %d habilitadas",
			required, availableStaff))
	}
	if settings != nil && settings.MinStaffWarningThreshold > 0 && availableStaff < settings.MinStaffWarningThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"personal habilitado (%d) por debajo del umbral mínimo configurado (%d)",
			availableStaff, settings.MinStaffWarningThreshold))
	}
	return warnings
}
