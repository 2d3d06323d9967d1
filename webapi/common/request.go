package common

import (
	"errors"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one failed validation rule, reported under ProblemDetails.Errors.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value any    `json:"value,omitempty"`
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Value: fe.Value()})
			}
			_ = ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest, fields)
			return nil, err
		}
		_ = ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
		return nil, err
	}
	return &input, nil
}

// ClientIP returns the address the request originated from: the first
// X-Forwarded-For hop, then X-Real-IP, then the socket peer. Forwarding
// headers are only read when the peer is a trusted proxy.
func ClientIP(c *fiber.Ctx) string {
	if !c.IsProxyTrusted() {
		return c.IP()
	}
	if forwardedFor := c.Get(fiber.HeaderXForwardedFor); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := cleanIP(first); ip != "" {
			return ip
		}
	}
	if realIP := cleanIP(c.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return c.IP()
}

// cleanIP trims whitespace and drops a port when the proxy included one.
func cleanIP(s string) string {
	s = strings.TrimSpace(s)
	if host, _, err := net.SplitHostPort(s); err == nil {
		return host
	}
	return s
}
