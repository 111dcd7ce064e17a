package kratos

import (
	"context"
	"fmt"
	"time"

	kratosclient "github.com/ory/kratos-client-go"

	"study-auth/app/domain"

	"github.com/google/uuid"
)

// PerformNativeLogin runs a complete native login flow: create the flow,
// then submit it with the password method. On success it returns the issued
// session and its session token.
func (c *Client) PerformNativeLogin(ctx context.Context, email, password string) (*domain.Session, string, error) {
	flow, httpResp, err := c.publicAPI.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		c.logger.Error("kratos login flow creation failed", "error", err)
		return nil, "", classifyError(err, httpResp, "login_flow_create")
	}

	body := kratosclient.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: email,
		Password:   password,
	}

	result, httpResp, err := c.publicAPI.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratosclient.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		c.logger.Warn("kratos login flow submission failed",
			"flow_id", flow.Id,
			"error", err)
		return nil, "", classifyError(err, httpResp, "login_flow_submit")
	}

	session, err := toDomainSession(&result.Session)
	if err != nil {
		return nil, "", err
	}

	token := ""
	if result.SessionToken != nil {
		token = *result.SessionToken
	}

	c.logger.Info("native login completed",
		"flow_id", flow.Id,
		"subject", session.UserID)

	return session, token, nil
}

// PerformNativeRegistration runs a complete native registration flow. The
// returned session and token are nil/empty when the backend requires
// out-of-band confirmation before issuing a session.
func (c *Client) PerformNativeRegistration(ctx context.Context, email, password string) (*domain.Session, string, error) {
	flow, httpResp, err := c.publicAPI.FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		c.logger.Error("kratos registration flow creation failed", "error", err)
		return nil, "", classifyError(err, httpResp, "registration_flow_create")
	}

	body := kratosclient.UpdateRegistrationFlowWithPasswordMethod{
		Method:   "password",
		Password: password,
		Traits: map[string]interface{}{
			"email": email,
		},
	}

	result, httpResp, err := c.publicAPI.FrontendAPI.
		UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(kratosclient.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&body)).
		Execute()
	if err != nil {
		c.logger.Warn("kratos registration flow submission failed",
			"flow_id", flow.Id,
			"error", err)
		return nil, "", classifyError(err, httpResp, "registration_flow_submit")
	}

	if result.Session == nil {
		c.logger.Info("registration accepted without session, confirmation pending",
			"flow_id", flow.Id,
			"identity_id", result.Identity.Id)
		return nil, "", nil
	}

	session, err := toDomainSession(result.Session)
	if err != nil {
		return nil, "", err
	}

	token := ""
	if result.SessionToken != nil {
		token = *result.SessionToken
	}

	c.logger.Info("native registration completed",
		"flow_id", flow.Id,
		"subject", session.UserID)

	return session, token, nil
}

// Whoami checks the session token against Kratos and returns the session
// it identifies. Returns domain.ErrSessionNotFound when the token no
// longer identifies an active session.
func (c *Client) Whoami(ctx context.Context, token string) (*domain.Session, error) {
	resp, httpResp, err := c.publicAPI.FrontendAPI.
		ToSession(ctx).
		XSessionToken(token).
		Execute()
	if err != nil {
		return nil, classifyError(err, httpResp, "whoami")
	}

	return toDomainSession(resp)
}

// Logout revokes the session identified by the token.
func (c *Client) Logout(ctx context.Context, token string) error {
	httpResp, err := c.publicAPI.FrontendAPI.
		PerformNativeLogout(ctx).
		PerformNativeLogoutBody(kratosclient.PerformNativeLogoutBody{SessionToken: token}).
		Execute()
	if err != nil {
		return classifyError(err, httpResp, "logout")
	}

	c.logger.Info("session revoked")
	return nil
}

// toDomainSession converts a Kratos session into the domain projection.
func toDomainSession(ks *kratosclient.Session) (*domain.Session, error) {
	if ks == nil || ks.Identity == nil {
		return nil, fmt.Errorf("kratos session has no identity")
	}

	userID, err := uuid.Parse(ks.Identity.Id)
	if err != nil {
		return nil, fmt.Errorf("invalid identity ID from kratos: %w", err)
	}

	session := &domain.Session{
		ID:        uuid.New(),
		BackendID: ks.Id,
		UserID:    userID,
		Email:     identityEmail(ks.Identity),
		Active:    true,
	}
	if ks.Active != nil {
		session.Active = *ks.Active
	}
	if ks.ExpiresAt != nil {
		session.ExpiresAt = *ks.ExpiresAt
	}
	if ks.AuthenticatedAt != nil {
		session.AuthenticatedAt = *ks.AuthenticatedAt
	} else {
		session.AuthenticatedAt = time.Now()
	}

	return session, nil
}

// identityEmail extracts the email trait from a Kratos identity.
func identityEmail(identity *kratosclient.Identity) string {
	traits, ok := identity.Traits.(map[string]interface{})
	if !ok {
		return ""
	}
	email, _ := traits["email"].(string)
	return email
}
