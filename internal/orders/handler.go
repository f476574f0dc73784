package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lager-backend/internal/audit"
	"lager-backend/internal/database"
	"lager-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrderItemRequest struct {
	ArticleID *uint  `json:"article_id"`
	FreeText  string `json:"free_text"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderMobilfunkRequest struct {
	Type string `json:"type"` // PHONE_ONLY, SIM_ONLY, PHONE_AND_SIM
}

type CreateOrderRequest struct {
	OrderedBy      string                        `json:"ordered_by"`
	OrderedFor     string                        `json:"ordered_for"`
	CostCenter     string                        `json:"cost_center"`
	DeliveryMethod string                        `json:"delivery_method"`
	TechnicianName string                        `json:"technician_name"`
	Notes          string                        `json:"notes"`
	Items          []CreateOrderItemRequest      `json:"items"`
	Mobilfunk      []CreateOrderMobilfunkRequest `json:"mobilfunk"`
}

type OrderItemResponse struct {
	ID            uint    `json:"id"`
	ArticleID     *uint   `json:"article_id"`
	ArticleName   string  `json:"article_name,omitempty"`
	SKU           string  `json:"sku,omitempty"`
	FreeText      string  `json:"free_text,omitempty"`
	Quantity      int     `json:"quantity"`
	NeedsOrdering bool    `json:"needs_ordering"`
	OrderedAt     *string `json:"ordered_at"`
	ReceivedQty   int     `json:"received_qty"`
	PickedQty     int     `json:"picked_qty"`
	PickedBy      string  `json:"picked_by,omitempty"`
}

type OrderMobilfunkResponse struct {
	ID          uint   `json:"id"`
	Type        string `json:"type"`
	Ordered     bool   `json:"ordered"`
	Received    bool   `json:"received"`
	SetupDone   bool   `json:"setup_done"`
	Delivered   bool   `json:"delivered"`
	IMEI        string `json:"imei,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type OrderResponse struct {
	ID               uint                     `json:"id"`
	OrderNumber      string                   `json:"order_number"`
	OrderedBy        string                   `json:"ordered_by"`
	OrderedFor       string                   `json:"ordered_for"`
	CostCenter       string                   `json:"cost_center"`
	DeliveryMethod   string                   `json:"delivery_method"`
	Status           string                   `json:"status"` // abgeleiteter Status
	Availability     string                   `json:"availability"`
	NeedsProcurement bool                     `json:"needs_procurement"`
	TechnicianName   string                   `json:"technician_name,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	CreatedAt        string                   `json:"created_at"`
	Items            []OrderItemResponse      `json:"items"`
	Mobilfunk        []OrderMobilfunkResponse `json:"mobilfunk"`
}

// fiberError übersetzt Domänenfehler der Auftragstransaktionen in
// HTTP-Antworten. Die Fehlertaxonomie: 400 Validierung, 404 nicht gefunden,
// 409 Vorbedingung/Konflikt, sonst 500.
func fiberError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Datensatz nicht gefunden")
	case errors.Is(err, ErrQuantityExceedsItem),
		errors.Is(err, ErrSerialCountMismatch),
		errors.Is(err, ErrFreetextItem):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrSerialRequired),
		errors.Is(err, ErrSerialNotAvailable),
		errors.Is(err, ErrDuplicateSerial),
		errors.Is(err, ErrAlreadyPicked),
		errors.Is(err, ErrNotPicked),
		errors.Is(err, ErrAlreadyOrdered),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrOrderNotCancellable):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Vorgang konnte nicht abgeschlossen werden")
	}
}

// POST /api/orders
// Einziger extern dokumentierter Schreib-Endpunkt: legt Bestellung samt
// Positionen und Mobilfunk-Unteraufträgen in einer Transaktion an.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		// Validierungsfehler sammeln und als eine Meldung zurückgeben
		var problems []string
		if body.OrderedBy == "" {
			problems = append(problems, "ordered_by ist erforderlich")
		}
		if body.OrderedFor == "" {
			problems = append(problems, "ordered_for ist erforderlich")
		}
		delivery := models.DeliveryMethod(body.DeliveryMethod)
		if delivery == "" {
			delivery = models.DeliveryShipping
		} else if delivery != models.DeliveryShipping && delivery != models.DeliveryPickup {
			problems = append(problems, "delivery_method muss SHIPPING oder PICKUP sein")
		}
		if len(body.Items) == 0 && len(body.Mobilfunk) == 0 {
			problems = append(problems, "mindestens eine Position oder ein Mobilfunk-Auftrag ist erforderlich")
		}
		for idx, it := range body.Items {
			if it.Quantity <= 0 {
				problems = append(problems, fmt.Sprintf("Position %d: quantity muss größer 0 sein", idx+1))
			}
			if it.ArticleID == nil && it.FreeText == "" {
				problems = append(problems, fmt.Sprintf("Position %d: article_id oder free_text ist erforderlich", idx+1))
			}
			if it.ArticleID != nil && it.FreeText != "" {
				problems = append(problems, fmt.Sprintf("Position %d: article_id und free_text schließen sich aus", idx+1))
			}
		}
		for idx, m := range body.Mobilfunk {
			switch models.MobilfunkType(m.Type) {
			case models.MobilfunkPhoneOnly, models.MobilfunkSimOnly, models.MobilfunkPhoneAndSim:
			default:
				problems = append(problems, fmt.Sprintf("Mobilfunk %d: type muss PHONE_ONLY, SIM_ONLY oder PHONE_AND_SIM sein", idx+1))
			}
		}
		if len(problems) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, strings.Join(problems, "; "))
		}

		// Referenzierte Artikel laden (für Existenzprüfung und NeedsOrdering)
		items := make([]models.OrderItem, 0, len(body.Items))
		for idx, it := range body.Items {
			item := models.OrderItem{
				ArticleID: it.ArticleID,
				FreeText:  it.FreeText,
				Quantity:  it.Quantity,
			}
			if it.ArticleID != nil {
				var article models.Article
				if err := database.DB.First(&article, "id = ?", *it.ArticleID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("Position %d: Artikel %d nicht gefunden", idx+1, *it.ArticleID))
				}
				item.Article = &article
			}
			items = append(items, item)
		}

		pureConsumable := OrderIsPureConsumable(items) && len(body.Mobilfunk) == 0
		for i := range items {
			items[i].NeedsOrdering = !pureConsumable
			items[i].Article = nil // nicht mit anlegen
		}

		mobilfunk := make([]models.OrderMobilfunk, 0, len(body.Mobilfunk))
		for _, m := range body.Mobilfunk {
			mobilfunk = append(mobilfunk, models.OrderMobilfunk{Type: models.MobilfunkType(m.Type)})
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}

		orderNumber, err := NextOrderNumber(tx)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellnummer konnte nicht vergeben werden")
		}

		order := models.Order{
			OrderNumber:    orderNumber,
			OrderedBy:      body.OrderedBy,
			OrderedFor:     body.OrderedFor,
			CostCenter:     body.CostCenter,
			DeliveryMethod: delivery,
			Status:         models.OrderNew,
			TechnicianName: body.TechnicianName,
			Notes:          body.Notes,
			Items:          items,
			Mobilfunk:      mobilfunk,
		}
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellung konnte nicht angelegt werden")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.OrderedBy,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Bestellung %s angelegt (%d Positionen)", order.OrderNumber, len(order.Items)),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":      true,
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
		})
	}
}

func toOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		row := OrderItemResponse{
			ID:            it.ID,
			ArticleID:     it.ArticleID,
			FreeText:      it.FreeText,
			Quantity:      it.Quantity,
			NeedsOrdering: it.NeedsOrdering,
			ReceivedQty:   it.ReceivedQty,
			PickedQty:     it.PickedQty,
			PickedBy:      it.PickedBy,
		}
		if it.Article != nil {
			row.ArticleName = it.Article.Name
			row.SKU = it.Article.SKU
		}
		if it.OrderedAt != nil {
			formatted := it.OrderedAt.Format("2006-01-02 15:04:05")
			row.OrderedAt = &formatted
		}
		items = append(items, row)
	}

	mobilfunk := make([]OrderMobilfunkResponse, 0, len(o.Mobilfunk))
	for i := range o.Mobilfunk {
		m := &o.Mobilfunk[i]
		mobilfunk = append(mobilfunk, OrderMobilfunkResponse{
			ID:          m.ID,
			Type:        string(m.Type),
			Ordered:     m.Ordered,
			Received:    m.Received,
			SetupDone:   m.SetupDone,
			Delivered:   m.Delivered,
			IMEI:        m.IMEI,
			PhoneNumber: m.PhoneNumber,
		})
	}

	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		OrderedBy:        o.OrderedBy,
		OrderedFor:       o.OrderedFor,
		CostCenter:       o.CostCenter,
		DeliveryMethod:   string(o.DeliveryMethod),
		Status:           string(ComputeOrderStatus(o)),
		Availability:     string(CalculateStockAvailability(o.Items)),
		NeedsProcurement: NeedsProcurement(o),
		TechnicianName:   o.TechnicianName,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:            items,
		Mobilfunk:        mobilfunk,
	}
}

// GET /api/orders?status=IN_PROGRESS&needs_procurement=true
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ordersList []models.Order
		if err := database.DB.
			Preload("Items.Article").
			Preload("Mobilfunk").
			Order("created_at DESC").
			Find(&ordersList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellungen konnten nicht geladen werden")
		}

		statusFilter := c.Query("status")
		procurementOnly := c.Query("needs_procurement") == "true"

		resp := make([]OrderResponse, 0, len(ordersList))
		for i := range ordersList {
			row := toOrderResponse(&ordersList[i])
			if statusFilter != "" && row.Status != statusFilter {
				continue
			}
			if procurementOnly && !row.NeedsProcurement {
				continue
			}
			resp = append(resp, row)
		}

		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.Order
		if err := database.DB.
			Preload("Items.Article").
			Preload("Mobilfunk").
			First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bestellung nicht gefunden")
		}

		return c.JSON(toOrderResponse(&order))
	}
}

type CancelOrderRequest struct {
	Actor string `json:"actor"`
}

// POST /api/orders/:id/cancel
func CancelOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body CancelOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bestellung nicht gefunden")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := CancelOrder(tx, order.ID); err != nil {
			tx.Rollback()
			return fiberError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Bestellung %s storniert", order.OrderNumber),
			Before:      order,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

type MilestoneRequest struct {
	Actor string `json:"actor"`
}

// POST /api/orders/:id/tech-done
// Techniker meldet die Bestellung als fertig bearbeitet.
func MarkTechDoneHandler() fiber.Handler {
	return milestoneHandler(func(o *models.Order, actor string, now time.Time) map[string]interface{} {
		return map[string]interface{}{"tech_done_at": now, "technician_name": actor}
	}, "Technikerarbeit abgeschlossen")
}

// POST /api/orders/:id/setup-done
func MarkSetupDoneHandler() fiber.Handler {
	return milestoneHandler(func(o *models.Order, actor string, now time.Time) map[string]interface{} {
		return map[string]interface{}{"setup_done_at": now}
	}, "Einrichtung abgeschlossen")
}

// POST /api/orders/:id/ship
// Versand bzw. Übergabe; die Ableitung setzt die Bestellung damit auf COMPLETED.
func MarkShippedHandler() fiber.Handler {
	return milestoneHandler(func(o *models.Order, actor string, now time.Time) map[string]interface{} {
		return map[string]interface{}{"shipped_at": now, "status": models.OrderCompleted}
	}, "Bestellung versendet/übergeben")
}

func milestoneHandler(updates func(*models.Order, string, time.Time) map[string]interface{}, description string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body MilestoneRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.Actor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "actor ist erforderlich")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bestellung nicht gefunden")
		}
		if order.Status == models.OrderCancelled || order.Status == models.OrderCompleted {
			return fiber.NewError(fiber.StatusConflict, "Bestellung ist bereits abgeschlossen oder storniert")
		}

		now := time.Now()
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht gestartet werden")
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(updates(&order, body.Actor, now)).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Meilenstein konnte nicht gesetzt werden")
		}
		if err := SyncOrderStatus(tx, order.ID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Status konnte nicht abgeglichen werden")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaktion konnte nicht abgeschlossen werden")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorName:   body.Actor,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("%s: %s", order.OrderNumber, description),
		})

		return c.JSON(fiber.Map{"success": true})
	}
}
