//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	baseURL      string
	server       *httptest.Server
	client       *http.Client
	token        string
	response     *http.Response
	responseBody []byte
	err          error
}

// newTestContext creates a new test context with sensible defaults.
// Without BASE_URL each scenario gets its own in-process service.
func newTestContext() *testContext {
	return &testContext{
		baseURL: os.Getenv("BASE_URL"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// start brings up the in-process service when no external one is configured.
func (tc *testContext) start() error {
	if tc.baseURL != "" && tc.server == nil {
		return nil
	}

	handler, err := newService()
	if err != nil {
		return err
	}

	tc.server = httptest.NewServer(handler)
	tc.baseURL = tc.server.URL

	return nil
}

// reset clears response state between scenarios.
func (tc *testContext) reset() {
	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}
	tc.response = nil
	tc.responseBody = nil
	tc.token = ""
	tc.err = nil
}

// stop shuts down the in-process service, if any.
func (tc *testContext) stop() {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
		tc.baseURL = ""
	}
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, tc.start()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.reset()
		tc.stop()
		return ctx, nil
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
	ctx.Step(`^I send (POST|PUT) "([^"]*)" with body:$`, tc.iSendWithBody)
	ctx.Step(`^I send DELETE "([^"]*)"$`, tc.iSendDELETE)
	ctx.Step(`^I send DELETE "([^"]*)" with my token$`, tc.iSendDELETEWithToken)
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, tc.iLogInAs)
	ctx.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, tc.iAmLoggedInAs)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, tc.theResponseHeaderShouldBe)
	ctx.Step(`^the response body should be empty$`, tc.theResponseBodyShouldBeEmpty)
}

// theServiceIsRunning verifies the service is reachable.
func (tc *testContext) theServiceIsRunning() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+"/-/live", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("service is not running at %s: %w", tc.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", resp.StatusCode)
	}

	return nil
}

// do sends a request and captures the response for later assertions.
func (tc *testContext) do(method, path, body, bearer string) error {
	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	tc.response, tc.err = tc.client.Do(req)
	if tc.err != nil {
		return fmt.Errorf("request failed: %w", tc.err)
	}

	tc.responseBody, tc.err = io.ReadAll(tc.response.Body)
	if tc.err != nil {
		return fmt.Errorf("failed to read response body: %w", tc.err)
	}

	return nil
}

// iRequestGET makes a GET request to the specified path.
func (tc *testContext) iRequestGET(path string) error {
	return tc.do(http.MethodGet, path, "", "")
}

func (tc *testContext) iSendWithBody(method, path string, body *godog.DocString) error {
	return tc.do(method, path, body.Content, "")
}

func (tc *testContext) iSendDELETE(path string) error {
	return tc.do(http.MethodDelete, path, "", "")
}

func (tc *testContext) iSendDELETEWithToken(path string) error {
	if tc.token == "" {
		return errors.New("not logged in")
	}

	return tc.do(http.MethodDelete, path, "", tc.token)
}

func (tc *testContext) iLogInAs(username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}

	return tc.do(http.MethodPost, "/api/auth/login", string(body), "")
}

// iAmLoggedInAs logs in and keeps the token for later steps.
func (tc *testContext) iAmLoggedInAs(username, password string) error {
	if err := tc.iLogInAs(username, password); err != nil {
		return err
	}

	if tc.response.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d", tc.response.StatusCode)
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(tc.responseBody, &login); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}

	tc.token = login.Token

	return nil
}

// theResponseStatusShouldBe asserts the response status code.
func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

// theResponseShouldContain asserts the response body contains the given text.
func (tc *testContext) theResponseShouldContain(text string) error {
	if tc.responseBody == nil {
		return errors.New("no response body")
	}

	body := string(tc.responseBody)
	if !strings.Contains(body, text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, body)
	}

	return nil
}

func (tc *testContext) theResponseHeaderShouldBe(name, value string) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if got := tc.response.Header.Get(name); got != value {
		return fmt.Errorf("expected header %s to be %q, got %q", name, value, got)
	}

	return nil
}

func (tc *testContext) theResponseBodyShouldBeEmpty() error {
	if len(tc.responseBody) != 0 {
		return fmt.Errorf("expected empty body, got %s", string(tc.responseBody))
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
