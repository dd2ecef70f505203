package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/application/transfer"
)

// SettingsHandler configuración de segregación de funciones de traslados.
type SettingsHandler struct {
	uc *transfer.UseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *transfer.UseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

func sodResponse(r *transfer.SODSettingsResult) dto.SODSettingsResponse {
	return dto.NewSODSettingsResponse(r.Settings, r.RequiredStaff, r.AvailableStaff, r.Warnings)
}

// GetSOD godoc
// @Summary      Configuración SOD de traslados de la empresa
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SODSettingsResponse
// @Router       /api/settings/transfer-sod [get]
func (h *SettingsHandler) GetSOD(c *fiber.Ctx) error {
	res, err := h.uc.GetSODSettings(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sodResponse(res))
}

// UpdateSOD godoc
// @Summary      Actualizar configuración SOD de traslados
// @Description  Devuelve advertencias si el personal habilitado no alcanza para cumplirla; no bloquea.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SODSettingsRequest  true  "configuración"
// @Success      200   {object}  dto.SODSettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/settings/transfer-sod [put]
func (h *SettingsHandler) UpdateSOD(c *fiber.Ctx) error {
	var in dto.SODSettingsRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.UpdateSODSettings(c.UserContext(), GetActor(c), in.ToEntity())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sodResponse(res))
}
