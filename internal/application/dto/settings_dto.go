package dto

import "github.com/jhoicas/traslados-api/internal/domain/entity"

// SODSettingsRequest cuerpo de PUT /api/settings/transfer-sod.
type SODSettingsRequest struct {
	AllowCreatorToCheck      bool     `json:"allow_creator_to_check"`
	AllowCreatorToApprove    bool     `json:"allow_creator_to_approve"`
	AllowCheckerToApprove    bool     `json:"allow_checker_to_approve"`
	AllowCreatorToSend       bool     `json:"allow_creator_to_send"`
	AllowCheckerToSend       bool     `json:"allow_checker_to_send"`
	AllowApproverToSend      bool     `json:"allow_approver_to_send"`
	AllowCreatorToReceive    bool     `json:"allow_creator_to_receive"`
	AllowSenderToReceive     bool     `json:"allow_sender_to_receive"`
	AllowCreatorToComplete   bool     `json:"allow_creator_to_complete"`
	AllowSenderToComplete    bool     `json:"allow_sender_to_complete"`
	AllowReceiverToComplete  bool     `json:"allow_receiver_to_complete"`
	ExemptRoles              []string `json:"exempt_roles" validate:"omitempty,dive,required,max=50"`
	MinStaffWarningThreshold int      `json:"min_staff_warning_threshold" validate:"min=0"`
}

// ToEntity construye la configuración (la empresa la pone el caso de uso).
func (r SODSettingsRequest) ToEntity() entity.SODSettings {
	return entity.SODSettings{
		AllowCreatorToCheck:      r.AllowCreatorToCheck,
		AllowCreatorToApprove:    r.AllowCreatorToApprove,
		AllowCheckerToApprove:    r.AllowCheckerToApprove,
		AllowCreatorToSend:       r.AllowCreatorToSend,
		AllowCheckerToSend:       r.AllowCheckerToSend,
		AllowApproverToSend:      r.AllowApproverToSend,
		AllowCreatorToReceive:    r.AllowCreatorToReceive,
		AllowSenderToReceive:     r.AllowSenderToReceive,
		AllowCreatorToComplete:   r.AllowCreatorToComplete,
		AllowSenderToComplete:    r.AllowSenderToComplete,
		AllowReceiverToComplete:  r.AllowReceiverToComplete,
		ExemptRoles:              r.ExemptRoles,
		MinStaffWarningThreshold: r.MinStaffWarningThreshold,
	}
}

// SODSettingsResponse configuración vigente más las advertencias de personal.
type SODSettingsResponse struct {
	SODSettingsRequest
	RequiredStaff  int      `json:"required_staff"`
	AvailableStaff int      `json:"available_staff"`
	Warnings       []string `json:"warnings"`
}

// NewSODSettingsResponse mapea la configuración y su diagnóstico.
func NewSODSettingsResponse(s *entity.SODSettings, required, available int, warnings []string) SODSettingsResponse {
	if warnings == nil {
		warnings = []string{}
	}
	return SODSettingsResponse{
		SODSettingsRequest: SODSettingsRequest{
			AllowCreatorToCheck:      s.AllowCreatorToCheck,
			AllowCreatorToApprove:    s.AllowCreatorToApprove,
			AllowCheckerToApprove:    s.AllowCheckerToApprove,
			AllowCreatorToSend:       s.AllowCreatorToSend,
			AllowCheckerToSend:       s.AllowCheckerToSend,
			AllowApproverToSend:      s.AllowApproverToSend,
			AllowCreatorToReceive:    s.AllowCreatorToReceive,
			AllowSenderToReceive:     s.AllowSenderToReceive,
			AllowCreatorToComplete:   s.AllowCreatorToComplete,
			AllowSenderToComplete:    s.AllowSenderToComplete,
			AllowReceiverToComplete:  s.AllowReceiverToComplete,
			ExemptRoles:              s.ExemptRoles,
			MinStaffWarningThreshold: s.MinStaffWarningThreshold,
		},
		RequiredStaff:  required,
		AvailableStaff: available,
		Warnings:       warnings,
	}
}
