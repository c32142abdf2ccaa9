package httpapi

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	frameflow "github.com/frameflow/frameflow"
)

// Issue is one entry of the error payload. Path locates the offending
// input, e.g. ["body", "username"].
type Issue struct {
	Message string `json:"message"`
	Path    []any  `json:"path"`
}

// IssuesPayload is the error envelope every failed request renders.
type IssuesPayload struct {
	Issues []Issue `json:"issues"`
}

func bodyIssue(message string, fields ...string) Issue {
	path := make([]any, 0, len(fields)+1)
	path = append(path, "body")
	for _, f := range fields {
		path = append(path, f)
	}
	return Issue{Message: message, Path: path}
}

// fieldForTextCode pins well-known failures to the input field clients
// should highlight.
func fieldForTextCode(textCode string) (string, bool) {
	switch textCode {
	case frameflow.TextCodeUserNotExist, frameflow.TextCodeUsernameTaken:
		return "username", true
	case frameflow.TextCodeIncorrectPassword:
		return "password", true
	}
	return "", false
}

// RenderError maps service errors to the issues payload. It is installed
// as the app-level fiber error handler, so any handler may just return
// its error.
func RenderError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		payload := IssuesPayload{}
		for field, ferr := range verrs {
			payload.Issues = append(payload.Issues, bodyIssue(ferr.Error(), field))
		}
		return c.Status(fiber.StatusBadRequest).JSON(payload)
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		status := rich.Code
		if status == 0 {
			switch rich.Category {
			case errors.CategoryAuth, errors.CategoryValidation, errors.CategoryBadInput:
				status = fiber.StatusBadRequest
			case errors.CategoryAuthz:
				status = fiber.StatusForbidden
			case errors.CategoryNotFound:
				status = fiber.StatusNotFound
			case errors.CategoryConflict:
				status = fiber.StatusConflict
			default:
				status = fiber.StatusInternalServerError
			}
		}

		// Server faults keep their cause out of the response body.
		if rich.Category == errors.CategoryInternal || rich.Category == errors.CategoryOperation {
			return c.Status(status).JSON(IssuesPayload{
				Issues: []Issue{{Message: "An unexpected server error occurred", Path: []any{}}},
			})
		}

		issue := Issue{Message: rich.Message, Path: []any{"body"}}
		if field, ok := fieldForTextCode(rich.TextCode); ok {
			issue = bodyIssue(rich.Message, field)
		}
		return c.Status(status).JSON(IssuesPayload{Issues: []Issue{issue}})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(IssuesPayload{
			Issues: []Issue{{Message: ferr.Message, Path: []any{}}},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(IssuesPayload{
		Issues: []Issue{{Message: "An unexpected server error occurred", Path: []any{}}},
	})
}
