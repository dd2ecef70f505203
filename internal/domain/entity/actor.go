package entity

// Roles conocidos.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleBodeguero  = "bodeguero"
	RoleVendedor   = "vendedor"
	RoleAuditor    = "auditor"
)

// Capacidades que habilitan las operaciones de traslado e inventario.
const (
	CapTransferCreate          = "transfer.create"
	CapTransferCheck           = "transfer.check"
	CapTransferApprove         = "transfer.approve"
	CapTransferSend            = "transfer.send"
	CapTransferReceive         = "transfer.receive"
	CapTransferComplete        = "transfer.complete"
	CapTransferCancel          = "transfer.cancel"
	CapTransferView            = "transfer.view"
	CapInventoryView           = "inventory.view"
	CapInventoryAdjust         = "inventory.adjust"
	CapInventoryCorrect        = "inventory.correct"
	CapInventoryApproveCorrect = "inventory.approve_correction"
	CapSettingsManage          = "settings.manage"
)

// Actor usuario que ejecuta una operación, con su empresa y roles.
type Actor struct {
	ID         string
	BusinessID string
	Roles      []string
}

// HasRole indica si el actor tiene el rol dado.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
