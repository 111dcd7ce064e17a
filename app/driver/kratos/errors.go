package kratos

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"study-auth/app/domain"
	kratosclient "github.com/ory/kratos-client-go"
)

// classifyError transforms Kratos API errors into domain errors. The domain
// sentinel is always attached as the cause so callers can use errors.Is.
func classifyError(err error, httpResp *http.Response, operation string) error {
	if kratosErr, ok := err.(*kratosclient.GenericOpenAPIError); ok {
		if classified := parseGenericError(kratosErr, operation); classified != nil {
			return classified
		}
	}

	if httpResp != nil {
		return parseHTTPStatusError(httpResp.StatusCode, operation, err)
	}

	return domain.NewAuthError(domain.ErrCodeServiceUnavailable,
		fmt.Sprintf("kratos %s failed", operation), domain.ErrServiceUnavailable)
}

// parseGenericError inspects the response body of a GenericOpenAPIError.
func parseGenericError(kratosErr *kratosclient.GenericOpenAPIError, operation string) error {
	body := kratosErr.Body()

	var errorResp map[string]interface{}
	if jsonErr := json.Unmarshal(body, &errorResp); jsonErr != nil {
		return classifyMessage(string(body), operation)
	}

	// UI messages carry the most specific texts
	if ui, ok := errorResp["ui"].(map[string]interface{}); ok {
		if err := classifyUIMessages(ui, operation); err != nil {
			return err
		}
	}

	if message, ok := errorResp["message"].(string); ok {
		return classifyMessage(message, operation)
	}
	if reason, ok := errorResp["reason"].(string); ok {
		return classifyMessage(reason, operation)
	}
	if errorObj, ok := errorResp["error"].(map[string]interface{}); ok {
		if message, ok := errorObj["message"].(string); ok {
			return classifyMessage(message, operation)
		}
	}

	return nil
}

// classifyUIMessages walks the flow UI messages, including node-level ones.
func classifyUIMessages(ui map[string]interface{}, operation string) error {
	if messages, ok := ui["messages"].([]interface{}); ok {
		for _, msg := range messages {
			if msgMap, ok := msg.(map[string]interface{}); ok {
				if text, ok := msgMap["text"].(string); ok {
					if err := classifyMessage(text, operation); err != nil {
						return err
					}
				}
			}
		}
	}

	if nodes, ok := ui["nodes"].([]interface{}); ok {
		for _, node := range nodes {
			nodeMap, ok := node.(map[string]interface{})
			if !ok {
				continue
			}
			messages, ok := nodeMap["messages"].([]interface{})
			if !ok {
				continue
			}
			for _, msg := range messages {
				if msgMap, ok := msg.(map[string]interface{}); ok {
					if text, ok := msgMap["text"].(string); ok {
						if err := classifyMessage(text, operation); err != nil {
							return err
						}
					}
				}
			}
		}
	}

	return nil
}

// parseHTTPStatusError maps HTTP status codes to domain errors.
func parseHTTPStatusError(statusCode int, operation string, originalErr error) error {
	switch statusCode {
	case http.StatusUnauthorized:
		if operation == "whoami" {
			return domain.NewAuthError(domain.ErrCodeSessionNotFound,
				"no active session", domain.ErrSessionNotFound)
		}
		return domain.NewAuthError(domain.ErrCodeInvalidCredentials,
			"authentication failed", domain.ErrInvalidCredentials)
	case http.StatusForbidden:
		return domain.NewAuthError(domain.ErrCodeForbidden,
			"access denied", domain.ErrForbidden)
	case http.StatusNotFound, http.StatusGone:
		return domain.NewAuthError(domain.ErrCodeSessionNotFound,
			"resource not found or expired", domain.ErrSessionNotFound)
	case http.StatusConflict:
		return domain.NewAuthError(domain.ErrCodeUserExists,
			"user already exists", domain.ErrUserAlreadyExists)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewAuthError(domain.ErrCodeValidation,
			"request validation failed", domain.ErrInvalidInput)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.NewAuthError(domain.ErrCodeServiceUnavailable,
			"identity backend temporarily unavailable", domain.ErrServiceUnavailable)
	default:
		return domain.NewAuthError(domain.ErrCodeInternal,
			fmt.Sprintf("kratos %s failed with status %d", operation, statusCode), originalErr)
	}
}

// classifyMessage maps Kratos message texts to domain errors. Returns nil
// when the text matches nothing, so callers can fall through.
func classifyMessage(message, operation string) error {
	messageLower := strings.ToLower(message)

	if containsAny(messageLower, []string{"not active yet", "verify your email", "email not confirmed", "address is not yet verified"}) {
		return domain.NewAuthError(domain.ErrCodeUnconfirmed,
			"account requires email confirmation", domain.ErrAccountUnconfirmed)
	}

	if containsAny(messageLower, []string{"credentials are invalid", "invalid credentials", "wrong password", "authentication failed"}) {
		return domain.NewAuthError(domain.ErrCodeInvalidCredentials,
			"invalid email or password", domain.ErrInvalidCredentials)
	}

	if containsAny(messageLower, []string{"already exists", "already registered", "duplicate"}) {
		return domain.NewAuthError(domain.ErrCodeUserExists,
			"user with this email already exists", domain.ErrUserAlreadyExists)
	}

	if containsAny(messageLower, []string{"password policy", "password too weak", "password must", "similar to", "breaches"}) {
		return domain.NewAuthError(domain.ErrCodeValidation,
			"password does not meet security requirements", domain.ErrPasswordTooWeak)
	}

	if containsAny(messageLower, []string{"session not found", "invalid session", "session expired", "no active session"}) {
		return domain.NewAuthError(domain.ErrCodeSessionNotFound,
			"session has expired", domain.ErrSessionNotFound)
	}

	if containsAny(messageLower, []string{"flow expired", "expired flow", "flow not found"}) {
		return domain.NewAuthError(domain.ErrCodeValidation,
			"authentication flow has expired", domain.ErrInvalidInput)
	}

	if containsAny(messageLower, []string{"connection refused", "timeout", "service unavailable"}) {
		return domain.NewAuthError(domain.ErrCodeServiceUnavailable,
			"identity backend temporarily unavailable", domain.ErrServiceUnavailable)
	}

	return nil
}

// containsAny checks if the text contains any of the given substrings
func containsAny(text string, substrings []string) bool {
	for _, substring := range substrings {
		if strings.Contains(text, substring) {
			return true
		}
	}
	return false
}
