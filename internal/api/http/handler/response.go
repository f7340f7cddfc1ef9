package handler

import "github.com/gofiber/fiber/v3"

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func accepted(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusAccepted)
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c fiber.Ctx, msg string) error {
	return errorJSON(c, fiber.StatusBadRequest, msg)
}

func unauthorized(c fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "unauthorized")
}

func notFound(c fiber.Ctx, msg string) error {
	return errorJSON(c, fiber.StatusNotFound, msg)
}

func tooManyRequests(c fiber.Ctx, msg string) error {
	return errorJSON(c, fiber.StatusTooManyRequests, msg)
}

func serviceUnavailable(c fiber.Ctx, msg string) error {
	return errorJSON(c, fiber.StatusServiceUnavailable, msg)
}

func internalError(c fiber.Ctx) error {
	return errorJSON(c, fiber.StatusInternalServerError, "internal server error")
}
