package handlers

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/middleware"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type CardHandler struct {
	db *gorm.DB
}

func NewCardHandler(db *gorm.DB) *CardHandler {
	return &CardHandler{db: db}
}

type AddCardRequest struct {
	CardNumber     string `json:"cardNumber" binding:"required"`
	CardholderName string `json:"cardholderName" binding:"required"`
	ExpiryDate     string `json:"expiryDate" binding:"required"`
	CVV            string `json:"cvv"`
	IsDefault      bool   `json:"isDefault"`

	// Token issued by the gateway's client side tokenization.
	Token string `json:"token"`
}

type cardView struct {
	ID             string `json:"id"`
	CardNumber     string `json:"cardNumber"`
	CardholderName string `json:"cardholderName"`
	ExpiryDate     string `json:"expiryDate"`
	Brand          string `json:"brand"`
	IsDefault      bool   `json:"isDefault"`
}

func cardViewOf(card *models.CreditCard) cardView {
	return cardView{
		ID:             card.ID,
		CardNumber:     "**** **** **** " + card.Last4,
		CardholderName: card.HolderName,
		ExpiryDate:     expiryLabel(card.ExpiryMonth, card.ExpiryYear),
		Brand:          card.Brand,
		IsDefault:      card.IsDefault,
	}
}

func expiryLabel(month, year int) string {
	m := strconv.Itoa(month)
	if month < 10 {
		m = "0" + m
	}
	y := strconv.Itoa(year % 100)
	if year%100 < 10 {
		y = "0" + y
	}
	return m + "/" + y
}

////////////////////////////////////////////////////////
// VALIDATION
////////////////////////////////////////////////////////

var (
	cardDigits = regexp.MustCompile(`^\d{16}$`)
	expiryRe   = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvRe      = regexp.MustCompile(`^\d{3,4}$`)
)

// cardFromRequest validates the request and keeps only what may be stored.
// The full number and the CVV never leave this function.
func cardFromRequest(userID string, req AddCardRequest) (*models.CreditCard, error) {
	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if !cardDigits.MatchString(number) {
		return nil, httperr.Validation("invalid_card_number", "invalid card number")
	}

	m := expiryRe.FindStringSubmatch(strings.TrimSpace(req.ExpiryDate))
	if m == nil {
		return nil, httperr.Validation("invalid_expiry_date", "invalid expiry date format, use MM/YY")
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return nil, httperr.Validation("invalid_expiry_date", "invalid expiry date format, use MM/YY")
	}

	if req.CVV != "" && !cvvRe.MatchString(req.CVV) {
		return nil, httperr.Validation("invalid_cvv", "invalid CVV")
	}

	holder := strings.ToUpper(strings.TrimSpace(req.CardholderName))
	if holder == "" {
		return nil, httperr.Validation("invalid_cardholder_name", "cardholder name is required")
	}

	return &models.CreditCard{
		UserID:       userID,
		HolderName:   holder,
		Last4:        number[len(number)-4:],
		Brand:        cardBrand(number),
		ExpiryMonth:  month,
		ExpiryYear:   2000 + year,
		GatewayToken: strings.TrimSpace(req.Token),
		IsDefault:    req.IsDefault,
		IsActive:     true,
	}, nil
}

func cardBrand(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "visa"
	case number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return "master"
	case strings.HasPrefix(number, "2"):
		if p, _ := strconv.Atoi(number[:4]); p >= 2221 && p <= 2720 {
			return "master"
		}
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return "discover"
	}
	return "unknown"
}

////////////////////////////////////////////////////////
// HANDLERS
////////////////////////////////////////////////////////

func (h *CardHandler) List(c *gin.Context) {
	var cards []models.CreditCard
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND is_active = ?", c.GetString(middleware.ContextUserID), true).
		Order("is_default DESC, created_at DESC").
		Find(&cards).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	views := make([]cardView, 0, len(cards))
	for i := range cards {
		views = append(views, cardViewOf(&cards[i]))
	}
	httpresp.OK(c, views)
}

func (h *CardHandler) Add(c *gin.Context) {
	var req AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "card number, cardholder name and expiry date are required")
		return
	}

	card, err := cardFromRequest(c.GetString(middleware.ContextUserID), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if card.IsDefault {
			if err := tx.Model(&models.CreditCard{}).
				Where("user_id = ? AND is_default = ?", card.UserID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(card).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "Card added successfully", cardViewOf(card))
}

// Delete deactivates the card; past payments keep referencing it.
func (h *CardHandler) Delete(c *gin.Context) {
	var card models.CreditCard
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ? AND is_active = ?", c.Param("id"), c.GetString(middleware.ContextUserID), true).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, httperr.NotFound("Credit card"))
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&card).
		Updates(map[string]any{"is_active": false, "is_default": false}).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "Card deleted successfully")
}
