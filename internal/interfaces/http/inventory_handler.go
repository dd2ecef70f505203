package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// InventoryHandler libro de inventario, reconciliación y correcciones (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
	recon  *inventory.ReconciliationUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, recon *inventory.ReconciliationUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, recon: recon}
}

// PostEntry godoc
// @Summary      Registrar asiento manual en el libro
// @Description  opening_stock y purchase suman, sale resta, adjustment lleva su propio signo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PostLedgerEntryRequest  true  "asiento"
// @Success      201   {object}  dto.StockTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger [post]
func (h *InventoryHandler) PostEntry(c *fiber.Ctx) error {
	var in dto.PostLedgerEntryRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	tx, err := h.ledger.PostEntry(c.UserContext(), GetActor(c), inventory.PostEntryInput{
		VariationID:   in.VariationID,
		LocationID:    in.LocationID,
		Type:          entity.StockTransactionType(in.Type),
		Quantity:      in.Quantity,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Serials:       in.Serials,
		SerialIDs:     in.SerialIDs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockTransactionResponse(tx))
}

// History godoc
// @Summary      Historial del libro de una variación en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variation_id  query  string  true   "variación"
// @Param        location_id   query  string  true   "sucursal"
// @Param        limit         query  int     false  "máximo 100"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {array}   dto.StockTransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	var q dto.LedgerHistoryQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	list, err := h.ledger.History(c.UserContext(), GetActor(c), q.VariationID, q.LocationID, q.Limit, q.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockTransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, dto.NewStockTransactionResponse(tx))
	}
	return c.JSON(out)
}

// Stock godoc
// @Summary      Stock materializado de una variación en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variation_id  query  string  true  "variación"
// @Param        location_id   query  string  true  "sucursal"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	var q dto.StockKeyQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	snap, err := h.ledger.Stock(c.UserContext(), GetActor(c), q.VariationID, q.LocationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockResponse{
		VariationID: snap.VariationID,
		LocationID:  snap.LocationID,
		Quantity:    snap.Quantity,
		Version:     snap.Version,
	})
}

// Reconcile godoc
// @Summary      Comparar libro y snapshot de una llave
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variation_id  query  string  true  "variación"
// @Param        location_id   query  string  true  "sucursal"
// @Success      200  {object}  dto.VarianceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	var q dto.StockKeyQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	v, err := h.recon.Reconcile(c.UserContext(), GetActor(c), q.VariationID, q.LocationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewVarianceResponse(v))
}

// ScanVariances godoc
// @Summary      Llaves de la empresa con diferencia entre libro y snapshot
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VarianceResponse
// @Router       /api/inventory/reconciliation/variances [get]
func (h *InventoryHandler) ScanVariances(c *fiber.Ctx) error {
	variances, err := h.recon.ScanVariances(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.VarianceResponse, 0, len(variances))
	for _, v := range variances {
		out = append(out, dto.NewVarianceResponse(v))
	}
	return c.JSON(out)
}

// RequestCorrection godoc
// @Summary      Registrar conteo físico
// @Description  Se aplica de inmediato salvo que supere el umbral o sea recurrente; en ese caso queda pendiente.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RequestCorrectionRequest  true  "conteo físico"
// @Success      201   {object}  dto.CorrectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/corrections [post]
func (h *InventoryHandler) RequestCorrection(c *fiber.Ctx) error {
	var in dto.RequestCorrectionRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	corr, err := h.recon.RequestCorrection(c.UserContext(), GetActor(c), inventory.RequestCorrectionInput{
		VariationID:   in.VariationID,
		LocationID:    in.LocationID,
		PhysicalCount: in.PhysicalCount,
		Reason:        in.Reason,
		TransferID:    in.TransferID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCorrectionResponse(corr))
}

// ListCorrections godoc
// @Summary      Listar correcciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending, applied o rejected"
// @Param        limit   query  int     false  "máximo 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.CorrectionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/corrections [get]
func (h *InventoryHandler) ListCorrections(c *fiber.Ctx) error {
	var q dto.CorrectionListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	list, err := h.recon.ListCorrections(c.UserContext(), GetActor(c), entity.CorrectionStatus(q.Status), q.Limit, q.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CorrectionResponse, 0, len(list))
	for _, corr := range list {
		out = append(out, dto.NewCorrectionResponse(corr))
	}
	return c.JSON(out)
}

// GetCorrection godoc
// @Summary      Obtener corrección
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la corrección"
// @Success      200  {object}  dto.CorrectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/corrections/{id} [get]
func (h *InventoryHandler) GetCorrection(c *fiber.Ctx) error {
	corr, err := h.recon.GetCorrection(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCorrectionResponse(corr))
}

// ApproveCorrection godoc
// @Summary      Aprobar y aplicar corrección pendiente
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la corrección"
// @Success      200  {object}  dto.CorrectionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/corrections/{id}/approve [post]
func (h *InventoryHandler) ApproveCorrection(c *fiber.Ctx) error {
	corr, err := h.recon.ApproveCorrection(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCorrectionResponse(corr))
}

// RejectCorrection godoc
// @Summary      Rechazar corrección pendiente
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID de la corrección"
// @Param        body  body      dto.RejectCorrectionRequest  true  "motivo"
// @Success      200   {object}  dto.CorrectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/corrections/{id}/reject [post]
func (h *InventoryHandler) RejectCorrection(c *fiber.Ctx) error {
	var in dto.RejectCorrectionRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	corr, err := h.recon.RejectCorrection(c.UserContext(), GetActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCorrectionResponse(corr))
}
