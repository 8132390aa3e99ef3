package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postbatch/internal/repository"
	"github.com/maheshrc27/postbatch/internal/service"
	"github.com/maheshrc27/postbatch/internal/state"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidDraft),
		errors.Is(err, state.ErrInvalidValue),
		errors.Is(err, state.ErrMediaIndex):
		return fiber.StatusBadRequest
	case errors.Is(err, state.ErrUnknownDestination),
		errors.Is(err, state.ErrUnknownPost):
		return fiber.StatusNotFound
	case errors.Is(err, state.ErrDuplicateDestination):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrMissingAPIKey):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, service.ErrMediaUpload),
		errors.Is(err, service.ErrBatchRejected),
		errors.Is(err, repository.ErrRejected),
		errors.Is(err, repository.ErrRequestFailed),
		errors.Is(err, repository.ErrNoEndpoint):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
