package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/state"
)

type DestinationHandler struct {
	st *state.AppState
}

func NewDestinationHandler(st *state.AppState) *DestinationHandler {
	return &DestinationHandler{st: st}
}

func (h *DestinationHandler) ListDestinations(c *fiber.Ctx) error {
	if c.QueryBool("refresh", false) {
		_ = h.st.RefreshDestinations(c.Context())
	}
	return c.JSON(fiber.Map{
		"destinations": h.st.Destinations(),
		"selected":     h.st.SelectedIDs(),
	})
}

func (h *DestinationHandler) AddDestination(c *fiber.Ctx) error {
	dest, msg := parseDestination(c)
	if msg == "" && strings.TrimSpace(dest.ID) == "" {
		msg = "id is required"
	}
	if msg != "" {
		return badRequest(c, msg)
	}

	if err := h.st.AddDestination(c.Context(), dest); err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dest)
}

func (h *DestinationHandler) UpdateDestination(c *fiber.Ctx) error {
	dest, msg := parseDestination(c)
	if msg != "" {
		return badRequest(c, msg)
	}
	// The id in the path wins; ids never change after creation.
	dest.ID = c.Params("id")

	if err := h.st.UpdateDestination(c.Context(), dest); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dest)
}

func (h *DestinationHandler) RemoveDestination(c *fiber.Ctx) error {
	if err := h.st.RemoveDestination(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *DestinationHandler) ToggleDestination(c *fiber.Ctx) error {
	selected, err := h.st.ToggleDestination(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"selected": selected,
		"ids":      h.st.SelectedIDs(),
	})
}

// parseDestination returns a non-empty message when the body is unusable.
func parseDestination(c *fiber.Ctx) (models.Destination, string) {
	var dest models.Destination
	if err := c.BodyParser(&dest); err != nil {
		return dest, "Unable to parse json"
	}
	if dest.Kind == "" {
		dest.Kind = models.DestinationPage
	}
	if dest.Kind != models.DestinationPage && dest.Kind != models.DestinationGroup {
		return dest, "type must be page or group"
	}
	if strings.TrimSpace(dest.Name) == "" {
		return dest, "name is required"
	}
	return dest, ""
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
