package client

import (
	"context"
	"fmt"

	"studycompanion/internal/models"
)

// Login signs in against /auth/{student,teacher}/login. Errors carry the
// server's detail or message field.
func (c *Client) Login(ctx context.Context, userType models.UserType, email, password string) (models.AuthResponse, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	return c.auth(ctx, userType, "login", payload)
}

// Register creates an account; subject is only sent for teachers.
func (c *Client) Register(ctx context.Context, userType models.UserType, email, password, subject string) (models.AuthResponse, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Subject  string `json:"subject,omitempty"`
	}{Email: email, Password: password}
	if userType == models.UserTeacher {
		payload.Subject = subject
	}
	return c.auth(ctx, userType, "register", payload)
}

func (c *Client) auth(ctx context.Context, userType models.UserType, action string, payload any) (models.AuthResponse, error) {
	path := fmt.Sprintf("/auth/%s/%s", models.ParseUserType(string(userType)), action)
	var out models.AuthResponse
	if err := c.postJSONWithKeys(ctx, path, payload, MsgRequestFailed, detailThenMessage, &out); err != nil {
		return models.AuthResponse{}, err
	}
	return out, nil
}
