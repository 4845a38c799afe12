package acceptance

import (
	"encoding/json"
	"net/http"
)

func (s *Suite) TestHealth() {
	resp, err := http.Get(s.BaseURL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&health))
	s.Equal("pass", health["status"])
}

func (s *Suite) TestMetrics() {
	resp, err := http.Get(s.BaseURL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}
