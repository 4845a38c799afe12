package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/lgardea/tax-intake-service/internal/dto"
)

func (s *Suite) postContact(req dto.ContactRequest) *http.Response {
	body, _ := json.Marshal(req)

	resp, err := http.Post(s.BaseURL+"/api/v1/contact", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestContact_HoneypotGetsFakeSuccessAndBan() {
	resp := s.postContact(dto.ContactRequest{
		Name:    "Totally Human",
		Email:   "bot@example.com",
		Message: "buy cheap things",
		Website: "https://spam.example",
	})
	defer resp.Body.Close()

	// the bot sees a success while the message is dropped
	s.Equal(http.StatusOK, resp.StatusCode)

	var success dto.SuccessResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&success))
	s.Equal("Message sent", success.Message)

	// every later message from the banned ip is dropped the same way,
	// honeypot field or not
	second := s.postContact(dto.ContactRequest{
		Name:    "Totally Human",
		Email:   "bot@example.com",
		Message: "hello again",
	})
	second.Body.Close()
	s.Equal(http.StatusOK, second.StatusCode)
}

func (s *Suite) TestContact_MissingCaptchaRejected() {
	resp := s.postContact(dto.ContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "I have a question about my return.",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestContact_MissingFieldsRejected() {
	resp := s.postContact(dto.ContactRequest{Name: "Jane Doe"})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
