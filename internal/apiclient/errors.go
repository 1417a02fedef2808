package apiclient

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// DefaultErrorMessage is used when a failed response carries no readable message.
const DefaultErrorMessage = "An error occurred"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// FieldMessage returns the server's message for one field, if any.
func (e *APIError) FieldMessage(field string) string {
	for _, fe := range e.FieldErrors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: DefaultErrorMessage}
	if !gjson.ValidBytes(body) {
		return apiErr
	}
	if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.Str != "" {
		apiErr.Message = msg.Str
	}
	if errs := gjson.GetBytes(body, "errors"); errs.IsArray() {
		errs.ForEach(func(_, item gjson.Result) bool {
			apiErr.FieldErrors = append(apiErr.FieldErrors, FieldError{
				Field:   item.Get("field").String(),
				Message: item.Get("message").String(),
			})
			return true
		})
	}
	return apiErr
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == status
}
