package entity

type CreateSweetRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Category    string  `json:"category" validate:"required,min=2,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Photo       string  `json:"photo" validate:"omitempty,max=500"`
}

type UpdateSweetRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Category    *string  `json:"category" validate:"omitempty,min=2,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Photo       *string  `json:"photo" validate:"omitempty,max=500"`
}

type PurchaseRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// SweetFilter задаёт фильтры и пагинацию для листинга каталога
type SweetFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// SearchFilter задаёт параметры поиска по каталогу
type SearchFilter struct {
	Query    string // Поиск по имени и категории без учёта регистра
	Category string
	MinPrice *float64
	MaxPrice *float64
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type SweetListResponse struct {
	Sweets []Sweet `json:"sweets"`
	Total  int     `json:"total"`
}

// PurchaseResponse возвращается после успешной покупки:
// запись журнала плюс сладость с уже списанным остатком
type PurchaseResponse struct {
	Message  string   `json:"message"`
	Purchase Purchase `json:"purchase"`
	Sweet    Sweet    `json:"sweet"`
}

// RestockResponse возвращается после пополнения склада с новым остатком
type RestockResponse struct {
	Message string `json:"message"`
	Sweet   Sweet  `json:"sweet"`
}

// PurchaseListResponse содержит историю покупок пользователя
type PurchaseListResponse struct {
	Purchases []Purchase `json:"purchases"`
	Total     int        `json:"total"`
}
