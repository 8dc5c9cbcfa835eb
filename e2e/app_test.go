package e2e

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite drives the running server through playwright's API client
type E2ETestSuite struct {
	suite.Suite
	pw  *playwright.Playwright
	api playwright.APIRequestContext
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest gives every test a fresh cookie jar
func (suite *E2ETestSuite) SetupTest() {
	api, err := suite.pw.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL: playwright.String(appURL),
	})
	require.NoError(suite.T(), err, "could not create request context")
	suite.api = api
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.api != nil {
		suite.api.Dispose()
	}
}

func (suite *E2ETestSuite) post(path string, body map[string]any) (int, map[string]any) {
	resp, err := suite.api.Post(path, playwright.APIRequestContextPostOptions{Data: body})
	require.NoError(suite.T(), err, "POST %s", path)
	var out map[string]any
	require.NoError(suite.T(), resp.JSON(&out), "POST %s body", path)
	return resp.Status(), out
}

func (suite *E2ETestSuite) get(path string, out any) int {
	resp, err := suite.api.Get(path)
	require.NoError(suite.T(), err, "GET %s", path)
	if out != nil {
		require.NoError(suite.T(), resp.JSON(out), "GET %s body", path)
	}
	return resp.Status()
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	email := uniqueEmail("flow")

	status, body := suite.post("/api/register", map[string]any{
		"name": "Flow User", "email": email, "password": "secret1",
	})
	require.Equal(suite.T(), 200, status, "register failed: %v", body)
	assert.Equal(suite.T(), "Registration successful", body["message"])

	var auth map[string]bool
	require.Equal(suite.T(), 200, suite.get("/api/check-auth", &auth))
	assert.True(suite.T(), auth["authenticated"])

	status, body = suite.post("/api/transactions", map[string]any{
		"amount": -50, "category": "Food", "description": "Lunch", "date": "2024-03-02",
	})
	require.Equal(suite.T(), 200, status, "create transaction failed: %v", body)
	assert.Equal(suite.T(), "Transaction created successfully", body["message"])

	var txs []map[string]any
	require.Equal(suite.T(), 200, suite.get("/api/transactions", &txs))
	require.Len(suite.T(), txs, 1)
	assert.Equal(suite.T(), "Lunch", txs[0]["description"])
	assert.Equal(suite.T(), float64(-50), txs[0]["amount"])

	status, _ = suite.post("/api/budgets", map[string]any{
		"category": "Food", "amount": 300, "period": "monthly",
	})
	require.Equal(suite.T(), 200, status)

	var rows []map[string]any
	require.Equal(suite.T(), 200, suite.get("/api/analytics/spending", &rows))
	require.Len(suite.T(), rows, 1)
	assert.Equal(suite.T(), "03", rows[0]["month"])

	resp, err := suite.api.Get("/api/transactions/export")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 200, resp.Status())
	csv, err := resp.Text()
	require.NoError(suite.T(), err)
	assert.True(suite.T(), strings.HasPrefix(csv, "Date,Description,Amount,Category\n2024-03-02,\"Lunch\",-50,Food"))

	status, body = suite.post("/api/logout", nil)
	require.Equal(suite.T(), 200, status)
	assert.Equal(suite.T(), "Logged out successfully", body["message"])

	require.Equal(suite.T(), 401, suite.get("/api/transactions", nil))
}

func (suite *E2ETestSuite) TestLoginAfterRegister() {
	email := uniqueEmail("login")
	status, _ := suite.post("/api/register", map[string]any{
		"name": "Login User", "email": email, "password": "secret1",
	})
	require.Equal(suite.T(), 200, status)
	status, _ = suite.post("/api/logout", nil)
	require.Equal(suite.T(), 200, status)

	status, body := suite.post("/api/login", map[string]any{"email": email, "password": "nope-nope"})
	assert.Equal(suite.T(), 401, status)
	assert.Equal(suite.T(), "Invalid credentials", body["error"])

	status, body = suite.post("/api/login", map[string]any{"email": email, "password": "secret1"})
	require.Equal(suite.T(), 200, status)
	assert.Equal(suite.T(), "Login successful", body["message"])

	var dashboard map[string]any
	require.Equal(suite.T(), 200, suite.get("/api/demo/dashboard", &dashboard))
	assert.Contains(suite.T(), dashboard, "healthScore")
}

func (suite *E2ETestSuite) TestDuplicateRegistration() {
	email := uniqueEmail("dup")
	status, _ := suite.post("/api/register", map[string]any{"name": "A", "email": email, "password": "secret1"})
	require.Equal(suite.T(), 200, status)

	status, body := suite.post("/api/register", map[string]any{"name": "B", "email": email, "password": "secret2"})
	assert.Equal(suite.T(), 400, status)
	assert.Equal(suite.T(), "Email already registered", body["error"])
}

func (suite *E2ETestSuite) TestUnauthenticatedAccess() {
	var auth map[string]bool
	require.Equal(suite.T(), 200, suite.get("/api/check-auth", &auth))
	assert.False(suite.T(), auth["authenticated"])

	var body map[string]string
	assert.Equal(suite.T(), 401, suite.get("/api/budgets", &body))
	assert.Equal(suite.T(), "Unauthorized", body["error"])
}

// TestE2ETestSuite runs the E2E test suite
func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
