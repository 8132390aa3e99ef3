package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postbatch/internal/repository"
	"github.com/maheshrc27/postbatch/internal/service"
	"github.com/maheshrc27/postbatch/internal/state"
)

type Deps struct {
	State     *state.AppState
	Store     repository.StoreClient
	Posts     service.PostService
	Generator service.GenerativeService
	History   repository.HistoryRepository
}

// Register mounts every API route under /api.
func Register(app *fiber.App, d Deps) {
	api := app.Group("/api")

	post := NewPostHandler(d.Posts, d.State)
	api.Get("/posts", post.ListPosts)
	api.Patch("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.DeletePost)

	dest := NewDestinationHandler(d.State)
	api.Get("/destinations", dest.ListDestinations)
	api.Post("/destinations", dest.AddDestination)
	api.Put("/destinations/:id", dest.UpdateDestination)
	api.Delete("/destinations/:id", dest.RemoveDestination)
	api.Post("/destinations/:id/toggle", dest.ToggleDestination)

	draft := NewDraftHandler(d.State, d.Generator)
	api.Get("/draft", draft.GetDraft)
	api.Put("/draft", draft.UpdateDraft)
	api.Post("/draft/media", draft.AddMedia)
	api.Delete("/draft/media/:index", draft.RemoveMedia)
	api.Post("/draft/generate", draft.Generate)
	api.Post("/draft/submit", post.SubmitDraft)

	settings := NewSettingsHandler(d.State, d.Store)
	api.Get("/config", settings.GetConfig)
	api.Get("/settings/connection", settings.TestConnection)
	api.Put("/settings/store", settings.UpdateStoreURL)
	api.Post("/sync", settings.Sync)

	history := NewHistoryHandler(d.History)
	api.Get("/history", history.ListHistory)
}
