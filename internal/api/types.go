// Package api defines the shared JSON request/response envelope for the HTTP API.
// Every response carries a success flag and a human-readable message, matching
// the shape consumed by the frontend.
package api

// Response is the standard envelope for endpoints without extra payload.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK builds a success envelope with the given message.
func OK(message string) Response {
	return Response{Success: true, Message: message}
}

// Fail builds a failure envelope with the given message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// UserSummary is the public projection of a user returned on login.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse is the success payload of the login endpoint.
type LoginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// UserData is the payload of the user-data endpoint.
type UserData struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

// UserDataResponse wraps UserData in the standard envelope.
type UserDataResponse struct {
	Success  bool     `json:"success"`
	UserData UserData `json:"userData"`
}
