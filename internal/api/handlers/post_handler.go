package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/service"
	"github.com/maheshrc27/postbatch/internal/state"
	"github.com/maheshrc27/postbatch/internal/transfer"
)

type PostHandler struct {
	s  service.PostService
	st *state.AppState
}

func NewPostHandler(service service.PostService, st *state.AppState) *PostHandler {
	return &PostHandler{s: service, st: st}
}

// ListPosts refreshes the list first unless ?cached=1 is given. A failed
// refresh still answers with the previous list.
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	stale := false
	if !c.QueryBool("cached", false) {
		if err := h.st.Refresh(c.Context()); err != nil {
			stale = true
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": h.st.Posts(),
		"stale": stale,
	})
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	var update models.PostUpdate
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	if err := h.st.UpdatePost(c.Context(), c.Params("id"), update); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.st.DeletePost(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) SubmitDraft(c *fiber.Ctx) error {
	result, err := h.s.SubmitDraft(c.Context())
	if err != nil {
		slog.Error("submission failed", "error", err)
		return errorJSON(c, err)
	}

	ids := make([]string, len(result.Items))
	for i, item := range result.Items {
		ids[i] = item.ID
	}

	return c.Status(fiber.StatusOK).JSON(transfer.SubmitResponse{
		Message:       "Posts scheduled successfully",
		ItemIDs:       ids,
		UploadedCount: len(result.VideoURLs) + len(result.ImageURLs),
		FailedUploads: result.FailedUploads,
	})
}
