package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/application/transfer"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	domtransfer "github.com/jhoicas/traslados-api/internal/domain/transfer"
)

// TransferHandler expone el ciclo de vida de los traslados (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

func toItemInputs(items []dto.TransferItemRequest) []transfer.ItemInput {
	out := make([]transfer.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, transfer.ItemInput{VariationID: it.VariationID, Quantity: it.Quantity, SerialIDs: it.SerialIDs})
	}
	return out
}

func toReceipt(r dto.ReceiptRequest) domtransfer.Receipt {
	return domtransfer.Receipt{Quantity: r.Quantity, Serials: r.Serials, Notes: r.Notes}
}

// Create godoc
// @Summary      Crear traslado (borrador)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTransferRequest  true  "origen, destino e ítems"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	t, err := h.uc.Create(c.UserContext(), GetActor(c), transfer.CreateInput{
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Notes:                 in.Notes,
		Items:                 toItemInputs(in.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "estado"
// @Param        location_id  query  string  false  "sucursal de origen o destino"
// @Param        limit        query  int     false  "máximo 100"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var q dto.TransferListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	actor := GetActor(c)
	list, total, err := h.uc.List(c.UserContext(), actor, repository.TransferFilter{
		BusinessID: actor.BusinessID,
		Status:     entity.TransferStatus(q.Status),
		LocationID: q.LocationID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.TransferListResponse{
		Items: make([]dto.TransferResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}
	for _, t := range list {
		out.Items = append(out.Items, dto.NewTransferResponse(t))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener traslado con sus ítems
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// UpdateItems godoc
// @Summary      Reemplazar ítems de un borrador
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "ID del traslado"
// @Param        body  body      dto.UpdateTransferItemsRequest  true  "ítems"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/items [put]
func (h *TransferHandler) UpdateItems(c *fiber.Ctx) error {
	var in dto.UpdateTransferItemsRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	t, err := h.uc.UpdateItems(c.UserContext(), GetActor(c), c.Params("id"), toItemInputs(in.Items))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

type transitionFunc func(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error)

// transition handler común para las transiciones sin cuerpo.
func (h *TransferHandler) transition(fn transitionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := fn(c.UserContext(), GetActor(c), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.NewTransferResponse(t))
	}
}

// Submit godoc
// @Summary      Enviar borrador a revisión
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/submit [post]
func (h *TransferHandler) Submit(c *fiber.Ctx) error { return h.transition(h.uc.Submit)(c) }

// Check godoc
// @Summary      Revisar traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/check [post]
func (h *TransferHandler) Check(c *fiber.Ctx) error { return h.transition(h.uc.Check)(c) }

// Approve godoc
// @Summary      Aprobar traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error { return h.transition(h.uc.Approve)(c) }

// Send godoc
// @Summary      Despachar traslado (descuenta stock en origen)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/send [post]
func (h *TransferHandler) Send(c *fiber.Ctx) error { return h.transition(h.uc.Send)(c) }

// Arrive godoc
// @Summary      Registrar llegada a destino
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/arrive [post]
func (h *TransferHandler) Arrive(c *fiber.Ctx) error { return h.transition(h.uc.Arrive)(c) }

// Complete godoc
// @Summary      Completar traslado (acredita lo recibido en destino)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error { return h.transition(h.uc.Complete)(c) }

// VerifyItem godoc
// @Summary      Verificar un ítem recibido
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path      string                 true  "ID del traslado"
// @Param        itemId  path      string                 true  "ID del ítem"
// @Param        body    body      dto.VerifyItemRequest  true  "cantidad y seriales recibidos"
// @Success      200     {object}  dto.TransferResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/items/{itemId}/verify [post]
func (h *TransferHandler) VerifyItem(c *fiber.Ctx) error {
	var in dto.VerifyItemRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	t, err := h.uc.VerifyItem(c.UserContext(), GetActor(c), c.Params("id"), c.Params("itemId"), toReceipt(in.ReceiptRequest))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// VerifyAll godoc
// @Summary      Verificar todos los ítems pendientes
// @Description  Ítems no incluidos en el cuerpo se reciben por la cantidad enviada.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                true   "ID del traslado"
// @Param        body  body      dto.VerifyAllRequest  false  "recepción por ítem"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/verify [post]
func (h *TransferHandler) VerifyAll(c *fiber.Ctx) error {
	var in dto.VerifyAllRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	receipts := make(map[string]domtransfer.Receipt, len(in.Items))
	for itemID, r := range in.Items {
		receipts[itemID] = toReceipt(r)
	}
	t, err := h.uc.VerifyAll(c.UserContext(), GetActor(c), c.Params("id"), receipts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// Cancel godoc
// @Summary      Cancelar traslado (restaura el origen si ya se despachó)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID del traslado"
// @Param        body  body      dto.CancelTransferRequest  true  "motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	t, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}
