package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/estadia-app/estadia/app/repository"
	"github.com/estadia-app/estadia/internal/pkg/payments/hura"
)

var (
	paymentService   *hura.Service
	paymentServiceMu sync.Mutex
)

// SetPaymentService injects the payment service; main wires the real gateway,
// tests wire fakes.
func SetPaymentService(svc *hura.Service) {
	paymentServiceMu.Lock()
	defer paymentServiceMu.Unlock()
	paymentService = svc
}

func getPaymentService() *hura.Service {
	paymentServiceMu.Lock()
	defer paymentServiceMu.Unlock()
	if paymentService == nil {
		cfg := hura.NewConfigFromEnv()
		store := hura.NewRepositoryStore(repository.GetGlobalRepositories())
		paymentService = hura.NewService(cfg, store, hura.NewClient(cfg))
	}
	return paymentService
}

// HandleCreatePixPayment initiates a PIX charge for a booking and returns the
// payment material the client renders at checkout.
func HandleCreatePixPayment(c *fiber.Ctx) error {
	var req hura.InitiateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "invalid JSON body",
		})
	}
	req.ClientIP = getClientIP(c)

	result, err := getPaymentService().InitiatePixPayment(c.UserContext(), req)
	if err != nil {
		var vErr *hura.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":    false,
				"error": vErr.Error(),
			})
		}
		if errors.Is(err, hura.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok":    false,
				"error": "booking not found",
			})
		}
		if errors.Is(err, hura.ErrNotConfigured) {
			log.Printf("[PaymentController] hura credentials missing")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":    false,
				"error": "payment provider is not configured",
			})
		}
		var gwErr *hura.GatewayError
		if errors.As(err, &gwErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"ok":      false,
				"error":   "payment provider rejected the transaction",
				"details": gatewayDetails(gwErr),
			})
		}
		log.Printf("[PaymentController] initiate failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{
		"ok":                    true,
		"provider":              result.Provider,
		"providerTransactionId": result.ProviderTransactionID,
		"status":                result.Status,
		"pix":                   result.Pix,
		"raw":                   result.Raw,
	})
}

// HandleHuraPostback receives the gateway's asynchronous status notification.
// It always acknowledges non-actionable deliveries; only a failed booking
// update returns 500 so the gateway retries.
func HandleHuraPostback(c *fiber.Ctx) error {
	result, err := getPaymentService().HandlePostback(c.UserContext(), c.Body())
	if err != nil {
		log.Printf("[PaymentController] postback failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "failed to process notification",
		})
	}

	if result.Outcome == hura.PostbackBookingPaid {
		return c.JSON(fiber.Map{"ok": true, "updated": string(hura.PostbackBookingPaid)})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func gatewayDetails(gwErr *hura.GatewayError) interface{} {
	if json.Valid(gwErr.RawBody) {
		return json.RawMessage(gwErr.RawBody)
	}
	return string(gwErr.RawBody)
}
