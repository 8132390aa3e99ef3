package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postbatch/internal/repository"
)

type HistoryHandler struct {
	r repository.HistoryRepository
}

func NewHistoryHandler(r repository.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{r: r}
}

func (h *HistoryHandler) ListHistory(c *fiber.Ctx) error {
	history, err := h.r.List(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list submission history",
		})
	}
	return c.JSON(history)
}
