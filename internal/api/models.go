package api

import "time"

// Food is a catalog entry with per-100g nutritional values. Immutable from
// the client's perspective.
type Food struct {
	ID         int64   `json:"id"`
	Name       string  `json:"nome"`
	EnergyKcal float64 `json:"energia_kcal"`
	CarbsG     float64 `json:"carboidratos_g"`
	ProteinG   float64 `json:"proteinas_g"`
	FatG       float64 `json:"lipideos_g"`
}

// MealItem is one food + quantity line within a persisted meal. The per-item
// totals are computed server-side.
type MealItem struct {
	ID        int64   `json:"id"`
	FoodID    int64   `json:"alimento"`
	FoodName  string  `json:"alimento_nome"`
	QuantityG float64 `json:"quantidade_g"`

	TotalKcal     float64 `json:"kcal_total"`
	TotalCarbsG   float64 `json:"carbo_total"`
	TotalProteinG float64 `json:"proteina_total"`
	TotalFatG     float64 `json:"gordura_total"`
}

// Meal is one logged meal with server-computed totals.
type Meal struct {
	ID          int64      `json:"id"`
	Name        string     `json:"nome"`
	Description string     `json:"descricao"`
	Essential   bool       `json:"essencial"`
	CreatedAt   time.Time  `json:"data_criacao"`
	Items       []MealItem `json:"itens"`

	TotalKcal     float64 `json:"total_kcal"`
	TotalCarbsG   float64 `json:"total_carbo"`
	TotalProteinG float64 `json:"total_proteina"`
	TotalFatG     float64 `json:"total_gordura"`
}

// CreateMealItem is the (food id, quantity) pair sent on create/update.
// Client-computed totals are stripped before submission.
type CreateMealItem struct {
	FoodID    int64   `json:"alimento_id"`
	QuantityG float64 `json:"quantidade_g"`
}

type CreateMealRequest struct {
	Name        string           `json:"nome"`
	Description string           `json:"descricao"`
	Items       []CreateMealItem `json:"itens"`
}

// MARK: - Auth

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenEnvelope struct {
	Token struct {
		Access string `json:"access"`
	} `json:"token"`
}

type ChangePasswordRequest struct {
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// MARK: - Profile

// Macros are the daily targets computed by the backend on first profile
// completion.
type Macros struct {
	DailyKcal     int     `json:"calorias_diarias"`
	DailyProteinG float64 `json:"proteinas_diarias"`
	DailyCarbsG   float64 `json:"carboidratos_diarios"`
	DailyFatG     float64 `json:"gorduras_diarias"`
}

type Profile struct {
	Age           *int     `json:"idade"`
	WeightKg      *float64 `json:"peso"`
	HeightCm      *float64 `json:"altura"`
	Sex           string   `json:"sexo"`
	ActivityLevel string   `json:"nivel_atividade"`
	Objective     string   `json:"objetivo"`
	Complete      bool     `json:"status"`
	Macros        *Macros  `json:"macros"`
}

type UpdateProfileRequest struct {
	Age           int     `json:"idade"`
	WeightKg      float64 `json:"peso"`
	HeightCm      float64 `json:"altura"`
	Sex           string  `json:"sexo"`
	ActivityLevel string  `json:"nivel_atividade"`
	Objective     string  `json:"objetivo"`
}

// MARK: - Chatbot

type ChatMessage struct {
	ID           int64     `json:"id"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	TokensUsed   *int      `json:"tokens_used"`
	ResponseTime *float64  `json:"response_time"`
}

type SendChatRequest struct {
	Message          string `json:"message"`
	SessionID        *int64 `json:"session_id,omitempty"`
	CreateNewSession bool   `json:"create_new_session"`
}

type SendChatResponse struct {
	SessionID        int64        `json:"session_id"`
	UserMessage      *ChatMessage `json:"user_message"`
	AssistantMessage *ChatMessage `json:"assistant_message"`
	TokensUsed       *int         `json:"tokens_used"`
	ResponseTime     *float64     `json:"response_time"`
}
