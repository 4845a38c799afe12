package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/lgardea/tax-intake-service/internal/dto"
)

func (s *Suite) login() string {
	body, _ := json.Marshal(dto.AdminLoginRequest{
		Email:    adminEmail,
		Password: adminPassword,
	})

	resp, err := http.Post(s.BaseURL+"/api/v1/admin/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Login should succeed")

	var loginResp dto.AdminLoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	s.Require().NotEmpty(loginResp.AccessToken)

	return loginResp.AccessToken
}

func (s *Suite) issueInvite(accessToken string, req dto.InviteRequest) dto.InviteResponse {
	body, _ := json.Marshal(req)

	httpReq, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/invitations", bytes.NewBuffer(body))
	s.Require().NoError(err)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(httpReq)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Invitation should be created")

	var inviteResp dto.InviteResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&inviteResp))
	return inviteResp
}

func (s *Suite) rawToken(intakeURL string) string {
	parsed, err := url.Parse(intakeURL)
	s.Require().NoError(err)

	token := parsed.Query().Get("token")
	s.Require().NotEmpty(token, "Intake URL should carry the raw token")
	return token
}

func (s *Suite) getSession(token string) *http.Response {
	resp, err := http.Get(s.BaseURL + "/api/v1/intake/session?token=" + url.QueryEscape(token))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) submit(token string, payload map[string]any) *http.Response {
	body, _ := json.Marshal(payload)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/intake?token="+url.QueryEscape(token),
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	return resp
}

func singleFilerPayload() map[string]any {
	return map[string]any{
		"filing_status": "single",
		"first_name":    "Jane",
		"last_name":     "Doe",
		"ssn":           "123-45-6789",
		"dob":           "1985-01-15",
		"email":         "jane@example.com",
		"phone":         "555-0100",
		"address_line1": "1 Main St",
		"city":          "Austin",
		"state":         "TX",
		"zip":           "78701",
	}
}

func (s *Suite) TestInviteValidateSubmit_FullFlow() {
	accessToken := s.login()

	invite := s.issueInvite(accessToken, dto.InviteRequest{
		Year:   2025,
		Locale: "en",
		Name:   "Jane Doe",
		Email:  "jane@example.com",
	})

	s.True(strings.HasPrefix(invite.URL, "https://taxes.example.com/en/intake?token="))
	s.True(invite.OneTime)
	token := s.rawToken(invite.URL)

	// first validation promotes invited to in_progress
	sessionResp := s.getSession(token)
	defer sessionResp.Body.Close()
	s.Require().Equal(http.StatusOK, sessionResp.StatusCode)

	var session dto.SessionResponse
	s.Require().NoError(json.NewDecoder(sessionResp.Body).Decode(&session))
	s.Equal("in_progress", session.Status)
	s.Equal(2025, session.Year)
	s.Equal("Jane Doe", session.Client.Name)
	s.Equal(invite.TaxReturnID, session.TaxReturnID)

	payload := singleFilerPayload()
	payload["dependents"] = []map[string]any{
		{"first_name": "Ann", "last_name": "Doe", "relationship": "daughter", "dob": "2015-03-02"},
		{"first_name": "Ben"}, // incomplete, must be skipped
	}

	submitResp := s.submit(token, payload)
	defer submitResp.Body.Close()
	s.Require().Equal(http.StatusOK, submitResp.StatusCode)

	var submitted dto.SubmitResponse
	s.Require().NoError(json.NewDecoder(submitResp.Body).Decode(&submitted))
	s.Equal("submitted", submitted.Status)

	// the one-time token is now spent for every operation
	secondSession := s.getSession(token)
	secondSession.Body.Close()
	s.Equal(http.StatusConflict, secondSession.StatusCode)

	secondSubmit := s.submit(token, singleFilerPayload())
	secondSubmit.Body.Close()
	s.Equal(http.StatusConflict, secondSubmit.StatusCode)

	var dependentCount int
	err := s.Postgres.DB.QueryRow(
		"SELECT COUNT(*) FROM dependents WHERE tax_return_id = $1", invite.TaxReturnID,
	).Scan(&dependentCount)
	s.Require().NoError(err)
	s.Equal(1, dependentCount, "Incomplete dependent entries are dropped")

	var ssnLast4 string
	err = s.Postgres.DB.QueryRow(
		"SELECT ssn_last4 FROM intake_records WHERE tax_return_id = $1", invite.TaxReturnID,
	).Scan(&ssnLast4)
	s.Require().NoError(err)
	s.Equal("6789", ssnLast4, "Only the last four SSN digits are stored")
}

func (s *Suite) TestReinvite_ReusesReturnMintsNewToken() {
	accessToken := s.login()

	req := dto.InviteRequest{
		Year:   2025,
		Locale: "en",
		Name:   "Jane Doe",
		Email:  "jane@example.com",
	}

	first := s.issueInvite(accessToken, req)
	second := s.issueInvite(accessToken, req)

	s.Equal(first.TaxReturnID, second.TaxReturnID, "Re-inviting must not duplicate the return")
	s.NotEqual(s.rawToken(first.URL), s.rawToken(second.URL), "Each invitation mints a fresh token")

	// both tokens resolve the same return
	resp := s.getSession(s.rawToken(second.URL))
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestRevoke_KillsAllTokens() {
	accessToken := s.login()

	invite := s.issueInvite(accessToken, dto.InviteRequest{
		Year:   2025,
		Locale: "es",
		Name:   "Juan Perez",
		Email:  "juan@example.com",
	})
	token := s.rawToken(invite.URL)

	httpReq, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/invitations/"+invite.TaxReturnID+"/revoke", nil)
	s.Require().NoError(err)
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(httpReq)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var revokeResp dto.RevokeResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&revokeResp))
	s.Equal(1, revokeResp.Revoked)

	// revocation is absolute and permanent
	sessionResp := s.getSession(token)
	sessionResp.Body.Close()
	s.Equal(http.StatusForbidden, sessionResp.StatusCode)
}

func (s *Suite) TestSession_UnknownToken() {
	resp := s.getSession("definitely-not-a-minted-token")
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestSession_MissingToken() {
	resp := s.getSession("")
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestSubmit_ReusableTokenSurvivesResubmission() {
	accessToken := s.login()

	oneTime := false
	invite := s.issueInvite(accessToken, dto.InviteRequest{
		Year:    2025,
		Locale:  "en",
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		OneTime: &oneTime,
	})
	token := s.rawToken(invite.URL)

	first := s.submit(token, singleFilerPayload())
	first.Body.Close()
	s.Require().Equal(http.StatusOK, first.StatusCode)

	// resubmission replaces the content wholesale
	payload := singleFilerPayload()
	payload["filing_status"] = "married_joint"
	payload["spouse"] = map[string]any{
		"first_name": "John",
		"last_name":  "Doe",
		"ssn":        "987-65-4321",
		"dob":        "1984-07-04",
	}

	second := s.submit(token, payload)
	second.Body.Close()
	s.Require().Equal(http.StatusOK, second.StatusCode)

	var spouseCount int
	err := s.Postgres.DB.QueryRow(
		"SELECT COUNT(*) FROM spouses WHERE tax_return_id = $1", invite.TaxReturnID,
	).Scan(&spouseCount)
	s.Require().NoError(err)
	s.Equal(1, spouseCount)

	// switching back away from married deletes the spouse row
	third := s.submit(token, singleFilerPayload())
	third.Body.Close()
	s.Require().Equal(http.StatusOK, third.StatusCode)

	err = s.Postgres.DB.QueryRow(
		"SELECT COUNT(*) FROM spouses WHERE tax_return_id = $1", invite.TaxReturnID,
	).Scan(&spouseCount)
	s.Require().NoError(err)
	s.Equal(0, spouseCount)
}

func (s *Suite) TestSubmit_MarriedWithoutSpouseRejected() {
	accessToken := s.login()

	invite := s.issueInvite(accessToken, dto.InviteRequest{
		Year:   2025,
		Locale: "en",
		Name:   "Jane Doe",
		Email:  "jane@example.com",
	})
	token := s.rawToken(invite.URL)

	payload := singleFilerPayload()
	payload["filing_status"] = "married_separate"

	resp := s.submit(token, payload)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Contains(errResp.Message, "spouse")
}

func (s *Suite) TestInvitations_RequireAdminSession() {
	body, _ := json.Marshal(dto.InviteRequest{Year: 2025, Locale: "en", Name: "x", Email: "x@example.com"})

	resp, err := http.Post(s.BaseURL+"/api/v1/invitations", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestAdminLogin_WrongPassword() {
	body, _ := json.Marshal(dto.AdminLoginRequest{
		Email:    adminEmail,
		Password: "wrong-password",
	})

	resp, err := http.Post(s.BaseURL+"/api/v1/admin/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
