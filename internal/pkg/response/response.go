package response

import "github.com/gofiber/fiber/v2"

// Body represents a standard API error/message body.
// Field names match the public wire format of the service.
type Body struct {
	Msg   string `json:"msg,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK sends a 200 response with an arbitrary payload
func OK(c *fiber.Ctx, payload interface{}) error {
	return c.JSON(payload)
}

// Created sends a 201 response with an arbitrary payload
func Created(c *fiber.Ctx, payload interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(payload)
}

// Message sends a 200 response with only a msg field
func Message(c *fiber.Ctx, msg string) error {
	return c.JSON(Body{Msg: msg})
}

// Fail sends an error response with a msg field
func Fail(c *fiber.Ctx, statusCode int, msg string) error {
	return c.Status(statusCode).JSON(Body{Msg: msg})
}

// FailWithDetail sends an error response with msg and error detail fields
func FailWithDetail(c *fiber.Ctx, statusCode int, msg, detail string) error {
	return c.Status(statusCode).JSON(Body{Msg: msg, Error: detail})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, msg string) error {
	return Fail(c, fiber.StatusBadRequest, msg)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, msg string) error {
	return Fail(c, fiber.StatusUnauthorized, msg)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, msg string) error {
	return Fail(c, fiber.StatusForbidden, msg)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, msg string) error {
	return Fail(c, fiber.StatusNotFound, msg)
}

// InternalServerError sends a 500 response with msg and error detail
func InternalServerError(c *fiber.Ctx, msg string, err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return FailWithDetail(c, fiber.StatusInternalServerError, msg, detail)
}
