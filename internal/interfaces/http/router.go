package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Transfers      *transfer.UseCase
	Ledger         *inventory.LedgerUseCase
	Reconciliation *inventory.ReconciliationUseCase
	JWTSecret      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; los permisos finos
// por capacidad y la segregación de funciones los valida cada caso de uso.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Traslados
	transfers := protected.Group("/transfers")
	th := NewTransferHandler(deps.Transfers)
	transfers.Post("/", th.Create)
	transfers.Get("/", th.List)
	transfers.Get("/:id", th.Get)
	transfers.Put("/:id/items", th.UpdateItems)
	transfers.Post("/:id/submit", th.Submit)
	transfers.Post("/:id/check", th.Check)
	transfers.Post("/:id/approve", th.Approve)
	transfers.Post("/:id/send", th.Send)
	transfers.Post("/:id/arrive", th.Arrive)
	transfers.Post("/:id/items/:itemId/verify", th.VerifyItem)
	transfers.Post("/:id/verify", th.VerifyAll)
	transfers.Post("/:id/complete", th.Complete)
	transfers.Post("/:id/cancel", th.Cancel)

	// Libro, reconciliación y correcciones
	inv := protected.Group("/inventory")
	ih := NewInventoryHandler(deps.Ledger, deps.Reconciliation)
	inv.Post("/ledger", ih.PostEntry)
	inv.Get("/ledger", ih.History)
	inv.Get("/stock", ih.Stock)
	inv.Get("/reconciliation", ih.Reconcile)
	inv.Get("/reconciliation/variances", ih.ScanVariances)
	inv.Post("/corrections", ih.RequestCorrection)
	inv.Get("/corrections", ih.ListCorrections)
	inv.Get("/corrections/:id", ih.GetCorrection)
	inv.Post("/corrections/:id/approve", ih.ApproveCorrection)
	inv.Post("/corrections/:id/reject", ih.RejectCorrection)

	// Configuración
	sh := NewSettingsHandler(deps.Transfers)
	protected.Get("/settings/transfer-sod", sh.GetSOD)
	protected.Put("/settings/transfer-sod", sh.UpdateSOD)
}

// MountMetrics expone las métricas de Prometheus en path (sin autenticación).
func MountMetrics(app *fiber.App, path string, gatherer prometheus.Gatherer) {
	app.Get(path, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
