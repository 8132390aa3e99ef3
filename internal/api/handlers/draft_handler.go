package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postbatch/internal/media"
	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/service"
	"github.com/maheshrc27/postbatch/internal/state"
	"github.com/maheshrc27/postbatch/internal/transfer"
)

type DraftHandler struct {
	st  *state.AppState
	gen service.GenerativeService
}

func NewDraftHandler(st *state.AppState, gen service.GenerativeService) *DraftHandler {
	return &DraftHandler{st: st, gen: gen}
}

func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	return c.JSON(h.st.Draft())
}

func (h *DraftHandler) UpdateDraft(c *fiber.Ctx) error {
	var update transfer.DraftUpdate
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	draft, err := h.st.UpdateDraft(update)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(draft)
}

func (h *DraftHandler) AddMedia(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return badRequest(c, "Unable to parse form")
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return badRequest(c, "No files selected")
	}

	files := make([]models.MediaFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "Unable to read "+fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return badRequest(c, "Unable to read "+fh.Filename)
		}
		if !media.Supported(data) {
			return badRequest(c, "Unsupported file type: "+fh.Filename)
		}
		files = append(files, media.NewFile(fh.Filename, fh.Header.Get("Content-Type"), data))
	}

	return c.JSON(h.st.AddMedia(files...))
}

func (h *DraftHandler) RemoveMedia(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "index must be a number")
	}

	draft, err := h.st.RemoveMedia(index)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(draft)
}

// Generate drafts content from the current text (used as the topic) and
// the attached images, and stores the result in the draft.
func (h *DraftHandler) Generate(c *fiber.Ctx) error {
	draft := h.st.Draft()
	if draft.Content == "" && len(draft.Media) == 0 {
		return badRequest(c, "Add a topic or media first")
	}

	content, err := h.gen.GenerateDraft(c.Context(), service.DraftRequest{
		Topic:    draft.Content,
		Tone:     draft.Tone,
		Audience: draft.Audience,
		PostType: draft.PostType,
		Media:    draft.Media,
	}, h.st.GeminiAPIKey())
	if err != nil {
		return errorJSON(c, err)
	}

	updated, err := h.st.UpdateDraft(transfer.DraftUpdate{Content: &content})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(updated)
}
