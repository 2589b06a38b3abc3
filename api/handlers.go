package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"matka/application"
	"matka/domain/entities"
)

const defaultListLimit = 50

type handlers struct {
	app *application.App
}

// errorResponse maps a domain error to the `{error, code}` payload with an
// HTTP status derived from the code. Unknown errors become opaque 500s.
func errorResponse(c *fiber.Ctx, err error) error {
	var domainErr *entities.DomainError
	if !errors.As(err, &domainErr) {
		log.WithError(err).Error("Internal error handling request")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
			"code":  "INTERNAL",
		})
	}

	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, entities.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, entities.ErrDuplicateResult), errors.Is(err, entities.ErrAlreadySettled):
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  domainErr.Code,
	})
}

func (h *handlers) declareResult(c *fiber.Ctx) error {
	var req struct {
		BazaarID int64  `json:"bazaar_id"`
		Date     string `json:"date"`
		Open     string `json:"open"`
		Close    string `json:"close"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return errorResponse(c, entities.ErrMalformedResult)
	}

	report, err := h.app.SettleResult(c.Context(), req.BazaarID, date, req.Open, req.Close)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success":        report.FullySettled(),
		"won_count":      report.WonCount,
		"lost_count":     report.LostCount,
		"skipped_count":  report.SkippedCount,
		"total_payout":   report.TotalPayout,
		"failed_bet_ids": report.FailedBetIDs(),
	})
}

func (h *handlers) placeBet(c *fiber.Ctx) error {
	var req struct {
		UserID   int64  `json:"user_id"`
		BazaarID int64  `json:"bazaar_id"`
		BetType  string `json:"bet_type"`
		Number   string `json:"number"`
		Stake    int64  `json:"stake"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	bet, err := h.app.PlaceBet(c.Context(), req.UserID, req.BazaarID, entities.BetType(req.BetType), req.Number, req.Stake)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(bet)
}

func (h *handlers) cancelBet(c *fiber.Ctx) error {
	betID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	bet, err := h.app.CancelBet(c.Context(), int64(betID), req.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(bet)
}

func (h *handlers) settleBet(c *fiber.Ctx) error {
	betID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	verdict, err := h.app.SettleBet(c.Context(), int64(betID))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"won":    verdict.Won,
		"payout": verdict.Payout,
	})
}

func (h *handlers) getWallet(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	wallet, err := h.app.GetWallet(c.Context(), int64(userID))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(wallet)
}

func (h *handlers) getTransactions(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	transactions, err := h.app.GetTransactions(c.Context(), int64(userID), c.QueryInt("limit", defaultListLimit))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"transactions": transactions})
}

func (h *handlers) getBets(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	bets, err := h.app.GetBets(c.Context(), int64(userID), c.QueryInt("limit", defaultListLimit))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"bets": bets})
}

func (h *handlers) getBetStats(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	stats, err := h.app.GetBetStats(c.Context(), int64(userID))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(stats)
}

func (h *handlers) deposit(c *fiber.Ctx) error {
	return h.walletMutation(c, h.app.Deposit)
}

func (h *handlers) withdraw(c *fiber.Ctx) error {
	return h.walletMutation(c, h.app.Withdraw)
}

func (h *handlers) adminAdjust(c *fiber.Ctx) error {
	return h.walletMutation(c, h.app.AdminAdjust)
}

func (h *handlers) walletMutation(c *fiber.Ctx, op func(ctx context.Context, userID, amount int64) (*entities.Transaction, error)) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	transaction, err := op(c.Context(), int64(userID), req.Amount)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(transaction)
}

func (h *handlers) createBazaar(c *fiber.Ctx) error {
	var req struct {
		Name        string           `json:"name"`
		OpenTime    string           `json:"open_time"`
		CloseTime   string           `json:"close_time"`
		MinBet      int64            `json:"min_bet"`
		MaxBet      int64            `json:"max_bet"`
		Multipliers map[string]int64 `json:"multipliers"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	multipliers := make(map[entities.BetType]int64, len(req.Multipliers))
	for betType, m := range req.Multipliers {
		multipliers[entities.BetType(betType)] = m
	}

	bazaar := &entities.Bazaar{
		Name:        req.Name,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		MinBet:      req.MinBet,
		MaxBet:      req.MaxBet,
		Multipliers: multipliers,
	}
	if err := h.app.CreateBazaar(c.Context(), bazaar); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(bazaar)
}

func (h *handlers) listBazaars(c *fiber.Ctx) error {
	bazaars, err := h.app.ListActiveBazaars(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"bazaars": bazaars})
}

func (h *handlers) updateBazaarStatus(c *fiber.Ctx) error {
	bazaarID, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, entities.ErrValidation)
	}

	if err := h.app.UpdateBazaarStatus(c.Context(), int64(bazaarID), entities.BazaarStatus(req.Status)); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"status": req.Status})
}
