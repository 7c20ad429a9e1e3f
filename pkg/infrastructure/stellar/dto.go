package stellar

import (
	"time"

	"burger/pkg/domain/model"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ingredientDTO struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Proteins      int    `json:"proteins"`
	Fat           int    `json:"fat"`
	Carbohydrates int    `json:"carbohydrates"`
	Calories      int    `json:"calories"`
	Price         int64  `json:"price"`
	Image         string `json:"image"`
	ImageMobile   string `json:"image_mobile"`
	ImageLarge    string `json:"image_large"`
}

func (d ingredientDTO) toPart() (model.Part, error) {
	category, err := model.ParseCategory(d.Type)
	if err != nil {
		return model.Part{}, err
	}
	return model.Part{
		ID:            d.ID,
		Name:          d.Name,
		Category:      category,
		Proteins:      d.Proteins,
		Fat:           d.Fat,
		Carbohydrates: d.Carbohydrates,
		Calories:      d.Calories,
		Price:         d.Price,
		Image:         d.Image,
		ImageMobile:   d.ImageMobile,
		ImageLarge:    d.ImageLarge,
	}, nil
}

type ingredientsResponse struct {
	envelope
	Data []ingredientDTO `json:"data"`
}

type orderDTO struct {
	ID          string    `json:"_id"`
	Number      int       `json:"number"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Ingredients []string  `json:"ingredients"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d orderDTO) toOrder() model.Order {
	return model.Order{
		ID:          d.ID,
		Number:      d.Number,
		Name:        d.Name,
		Status:      model.OrderStatus(d.Status),
		Ingredients: d.Ingredients,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toOrders(dtos []orderDTO) []model.Order {
	orders := make([]model.Order, 0, len(dtos))
	for _, dto := range dtos {
		orders = append(orders, dto.toOrder())
	}
	return orders
}

type newOrderRequest struct {
	Ingredients []string `json:"ingredients"`
}

type newOrderResponse struct {
	envelope
	Name  string   `json:"name"`
	Order orderDTO `json:"order"`
}

type ordersResponse struct {
	envelope
	Orders     []orderDTO `json:"orders"`
	Total      int        `json:"total"`
	TotalToday int        `json:"totalToday"`
}

type userDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	envelope
	User userDTO `json:"user"`
}

type authResponse struct {
	envelope
	User         userDTO `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type refreshResponse struct {
	envelope
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
