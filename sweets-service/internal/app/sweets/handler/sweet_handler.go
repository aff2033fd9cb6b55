package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"sweetshop/sweets-service/internal/app/sweets/entity"
	"sweetshop/sweets-service/internal/app/sweets/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CatalogServiceInterface interface {
	CreateSweet(ctx context.Context, req *entity.CreateSweetRequest) (*entity.Sweet, error)
	GetSweet(ctx context.Context, id uuid.UUID) (*entity.Sweet, error)
	GetAllSweets(ctx context.Context, filter entity.SweetFilter) ([]entity.Sweet, error)
	SearchSweets(ctx context.Context, filter entity.SearchFilter) ([]entity.Sweet, error)
	UpdateSweet(ctx context.Context, id uuid.UUID, req *entity.UpdateSweetRequest) (*entity.Sweet, error)
	DeleteSweet(ctx context.Context, id uuid.UUID) error
}

type InventoryServiceInterface interface {
	Purchase(ctx context.Context, sweetID uuid.UUID, userID string, quantity int) (*entity.Purchase, *entity.Sweet, error)
	Restock(ctx context.Context, sweetID uuid.UUID, quantity int) (*entity.Sweet, error)
	GetUserPurchases(ctx context.Context, userID string) ([]entity.Purchase, error)
}

// SweetHandler обрабатывает HTTP запросы каталога и склада
type SweetHandler struct {
	catalogService   CatalogServiceInterface
	inventoryService InventoryServiceInterface
	validator        *validator.Validate
}

// NewSweetHandler создает новый обработчик сладостей
func NewSweetHandler(catalogService CatalogServiceInterface, inventoryService InventoryServiceInterface) *SweetHandler {
	return &SweetHandler{
		catalogService:   catalogService,
		inventoryService: inventoryService,
		validator:        validator.New(),
	}
}

// CreateSweet обрабатывает POST /api/sweets (только admin)
func (h *SweetHandler) CreateSweet(c *gin.Context) {
	var req entity.CreateSweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	sweet, err := h.catalogService.CreateSweet(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSweetExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Sweet with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sweet"})
		return
	}

	c.JSON(http.StatusCreated, sweet)
}

// GetSweet обрабатывает GET /api/sweets/:id
func (h *SweetHandler) GetSweet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sweet ID"})
		return
	}

	sweet, err := h.catalogService.GetSweet(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSweetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sweet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sweet"})
		return
	}

	c.JSON(http.StatusOK, sweet)
}

// GetAllSweets обрабатывает GET /api/sweets с фильтрами и пагинацией
func (h *SweetHandler) GetAllSweets(c *gin.Context) {
	filter := entity.SweetFilter{
		Category: c.Query("category"),
		MinPrice: parsePriceParam(c.Query("min_price")),
		MaxPrice: parsePriceParam(c.Query("max_price")),
		Page:     parseIntParam(c.Query("page"), 1),
		Limit:    parseIntParam(c.Query("limit"), 20),
	}

	sweets, err := h.catalogService.GetAllSweets(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sweets"})
		return
	}

	c.JSON(http.StatusOK, entity.SweetListResponse{
		Sweets: sweets,
		Total:  len(sweets),
	})
}

// SearchSweets обрабатывает GET /api/sweets/search
func (h *SweetHandler) SearchSweets(c *gin.Context) {
	filter := entity.SearchFilter{
		Query:    c.Query("name"),
		Category: c.Query("category"),
		MinPrice: parsePriceParam(c.Query("min_price")),
		MaxPrice: parsePriceParam(c.Query("max_price")),
	}

	sweets, err := h.catalogService.SearchSweets(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search sweets"})
		return
	}

	c.JSON(http.StatusOK, entity.SweetListResponse{
		Sweets: sweets,
		Total:  len(sweets),
	})
}

// UpdateSweet обрабатывает PUT /api/sweets/:id (только admin)
func (h *SweetHandler) UpdateSweet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sweet ID"})
		return
	}

	var req entity.UpdateSweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	sweet, err := h.catalogService.UpdateSweet(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrSweetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sweet not found"})
			return
		}
		if errors.Is(err, service.ErrSweetExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Sweet with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sweet"})
		return
	}

	c.JSON(http.StatusOK, sweet)
}

// DeleteSweet обрабатывает DELETE /api/sweets/:id (только admin)
func (h *SweetHandler) DeleteSweet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sweet ID"})
		return
	}

	if err := h.catalogService.DeleteSweet(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSweetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sweet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sweet"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Sweet deleted successfully",
	})
}

// PurchaseSweet обрабатывает POST /api/sweets/:id/purchase
// Количество опционально в теле запроса, по умолчанию 1
func (h *SweetHandler) PurchaseSweet(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sweet ID"})
		return
	}

	// Пустое тело означает покупку одной единицы
	req := entity.PurchaseRequest{Quantity: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := h.validator.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
			return
		}
	}

	purchase, sweet, err := h.inventoryService.Purchase(c.Request.Context(), id, userIDStr, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrSweetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sweet not found"})
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			// Сладость существует, но остатка не хватает - клиент может
			// повторить после пополнения склада
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase sweet"})
		return
	}

	c.JSON(http.StatusOK, entity.PurchaseResponse{
		Message:  "Purchase successful",
		Purchase: *purchase,
		Sweet:    *sweet,
	})
}

// RestockSweet обрабатывает POST /api/sweets/:id/restock (только admin)
func (h *SweetHandler) RestockSweet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sweet ID"})
		return
	}

	var req entity.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	sweet, err := h.inventoryService.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrSweetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sweet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restock sweet"})
		return
	}

	c.JSON(http.StatusOK, entity.RestockResponse{
		Message: "Restock successful",
		Sweet:   *sweet,
	})
}

// GetMyPurchases обрабатывает GET /api/purchases/my
func (h *SweetHandler) GetMyPurchases(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID"})
		return
	}

	purchases, err := h.inventoryService.GetUserPurchases(c.Request.Context(), userIDStr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get purchases"})
		return
	}

	c.JSON(http.StatusOK, entity.PurchaseListResponse{
		Purchases: purchases,
		Total:     len(purchases),
	})
}

func parsePriceParam(value string) *float64 {
	if value == "" {
		return nil
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &price
}

func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return defaultValue
	}
	return parsed
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
