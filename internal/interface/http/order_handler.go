package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/pkg/response"
	"github.com/oksasatya/go-pizza-api/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type createOrderRequest struct {
	CustomerName  string   `json:"customer_name" binding:"required,max=150"`
	PhoneNumber   string   `json:"phone_number" binding:"required,max=32"`
	Address       string   `json:"address" binding:"required,max=255"`
	PizzaID       string   `json:"pizza_id" binding:"required,uuid"`
	SizeID        string   `json:"size_id" binding:"required,uuid"`
	ToppingIDs    []string `json:"topping_ids" binding:"omitempty,dive,uuid"`
	PaymentMethod string   `json:"payment_method" binding:"required,oneof=cash credit_card debit_card"`
}

type checkoutRequest struct {
	Name                string `json:"name" binding:"required,max=150"`
	Address             string `json:"address" binding:"required,max=255"`
	Phone               string `json:"phone" binding:"required,max=32"`
	Email               string `json:"email" binding:"omitempty,email"`
	PaymentMethod       string `json:"payment_method" binding:"required,oneof=cash credit_card debit_card"`
	SpecialInstructions string `json:"special_instructions" binding:"omitempty,max=500"`
}

type deliveryResponse struct {
	Name                string `json:"name"`
	Address             string `json:"address"`
	Phone               string `json:"phone"`
	Email               string `json:"email,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

type orderResponse struct {
	ID            string            `json:"id"`
	CustomerName  string            `json:"customer_name"`
	PhoneNumber   string            `json:"phone_number"`
	Address       string            `json:"address"`
	PizzaID       string            `json:"pizza_id"`
	SizeID        string            `json:"size_id"`
	ToppingIDs    []string          `json:"topping_ids"`
	PaymentMethod string            `json:"payment_method"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
	Status        string            `json:"status"`
	Delivery      *deliveryResponse `json:"delivery,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toOrderResponse(o *entity.Order) orderResponse {
	out := orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		PhoneNumber:   o.PhoneNumber,
		Address:       o.Address,
		PizzaID:       o.PizzaID,
		SizeID:        o.SizeID,
		ToppingIDs:    o.ToppingIDs,
		PaymentMethod: string(o.PaymentMethod),
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
	if out.ToppingIDs == nil {
		out.ToppingIDs = []string{}
	}
	if d := o.Delivery; d != nil {
		out.Delivery = &deliveryResponse{
			Name:                d.Name,
			Address:             d.Address,
			Phone:               d.Phone,
			Email:               d.Email,
			SpecialInstructions: d.SpecialInstructions,
		}
	}
	return out
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	o, err := h.Svc.CreateOrder(c.Request.Context(), application.CreateOrderInput{
		CustomerName:  req.CustomerName,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		PizzaID:       req.PizzaID,
		SizeID:        req.SizeID,
		ToppingIDs:    req.ToppingIDs,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toOrderResponse(o), "Order created successfully")
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOrderResponse(o), "Order retrieved successfully")
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	o, err := h.Svc.Checkout(c.Request.Context(), c.Param("id"), entity.DeliveryDetails{
		Name:                req.Name,
		Address:             req.Address,
		Phone:               req.Phone,
		Email:               req.Email,
		PaymentMethod:       entity.PaymentMethod(req.PaymentMethod),
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOrderResponse(o), "Order processed successfully")
}
