package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postbatch/internal/repository"
	"github.com/maheshrc27/postbatch/internal/state"
	"github.com/maheshrc27/postbatch/internal/transfer"
)

type SettingsHandler struct {
	st    *state.AppState
	store repository.StoreClient
}

func NewSettingsHandler(st *state.AppState, store repository.StoreClient) *SettingsHandler {
	return &SettingsHandler{st: st, store: store}
}

func (h *SettingsHandler) GetConfig(c *fiber.Ctx) error {
	if c.QueryBool("refresh", false) {
		_ = h.st.RefreshConfig(c.Context())
	}
	return c.JSON(h.st.Config())
}

func (h *SettingsHandler) TestConnection(c *fiber.Ctx) error {
	if err := h.store.TestConnection(c.Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "url": h.store.URL()})
}

func (h *SettingsHandler) UpdateStoreURL(c *fiber.Ctx) error {
	var body transfer.StoreURLUpdate
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Unable to parse json")
	}
	if u, err := url.Parse(body.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return badRequest(c, "url must be absolute")
	}

	h.store.SetURL(body.URL)
	h.st.Sync(c.Context())
	return c.JSON(fiber.Map{"url": h.store.URL()})
}

// Sync is called by the front end when its window regains focus.
func (h *SettingsHandler) Sync(c *fiber.Ctx) error {
	h.st.Sync(c.Context())
	return c.SendStatus(fiber.StatusNoContent)
}
