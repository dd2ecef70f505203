package entity

import "time"

// SODSettings configuración de segregación de funciones de una empresa.
// Cada campo responde "¿puede la misma persona que hizo X hacer también Y?".
type SODSettings struct {
	BusinessID string

	AllowCreatorToCheck     bool
	AllowCreatorToApprove   bool
	AllowCheckerToApprove   bool
	AllowCreatorToSend      bool
	AllowCheckerToSend      bool
	AllowApproverToSend     bool
	AllowCreatorToReceive   bool
	AllowSenderToReceive    bool
	AllowCreatorToComplete  bool
	AllowSenderToComplete   bool
	AllowReceiverToComplete bool

	// Roles que omiten todas las reglas.
	ExemptRoles []string
	// Umbral mínimo de personal habilitado; por debajo se advierte, no se bloquea.
	MinStaffWarningThreshold int

	UpdatedBy string
	UpdatedAt time.Time
}

// DefaultSODSettings configuración por defecto para empresas sin configuración propia:
// permisiva, ninguna regla activa hasta que la empresa la habilite.
func DefaultSODSettings(businessID string) *SODSettings {
	return &SODSettings{
		BusinessID:              businessID,
		AllowCreatorToCheck:     true,
		AllowCreatorToApprove:   true,
		AllowCheckerToApprove:   true,
		AllowCreatorToSend:      true,
		AllowCheckerToSend:      true,
		AllowApproverToSend:     true,
		AllowCreatorToReceive:   true,
		AllowSenderToReceive:    true,
		AllowCreatorToComplete:  true,
		AllowSenderToComplete:   true,
		AllowReceiverToComplete: true,
	}
}
