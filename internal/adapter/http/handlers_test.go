package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	poolDomain "defi-credit-backend/internal/domain/pool"
	"defi-credit-backend/internal/testutil/memuow"
	authUC "defi-credit-backend/internal/usecase/auth"
	borrowUC "defi-credit-backend/internal/usecase/borrow"
	creditUC "defi-credit-backend/internal/usecase/credit"

	"github.com/labstack/echo/v4"
)

type testEnv struct {
	e    *echo.Echo
	mem  *memuow.UoW
	auth *authUC.Usecase
}

// newTestEnv wires the handlers against the in-memory store with a fake
// session for user a@example.com.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := memuow.New()
	auth := authUC.NewUsecase(mem, "handler-test-secret", time.Hour)
	credit := creditUC.NewUsecase(mem)
	borrow := borrowUC.NewUsecase(mem, credit)

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	session := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("email", "a@example.com")
			return next(c)
		}
	}

	h := NewHandler()
	ah := NewAuthHandler(auth)
	bh := NewBorrowHandler(borrow, auth)
	ch := NewCreditHandler(credit, auth)

	e.GET("/health", h.Health)
	e.POST("/auth/signup", ah.Signup)
	e.POST("/auth/signin", ah.Signin)
	e.POST("/borrow", bh.Borrow, session)
	e.POST("/loans/:loan_id/repay", bh.Repay, session)
	e.GET("/loans", bh.History, session)
	e.GET("/credit/score", ch.Score, session)
	e.POST("/credit/deposit-streak", ch.ClaimDepositStreak, session)

	return &testEnv{e: e, mem: mem, auth: auth}
}

func (env *testEnv) signup(t *testing.T, email string) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/auth/signup",
		`{"email":"`+email+`","password":"hunter2hunter2","full_name":"A"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup code = %d (%s)", rec.Code, rec.Body)
	}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// An echo.HTTPError raised below the handlers (e.g. a missing session) must
// keep its status code instead of collapsing into a 500.
func TestWriteDomainError_KeepsHTTPErrorStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := writeDomainError(c, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated session"))
	if err != nil {
		t.Fatalf("writeDomainError: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no authenticated session") {
		t.Errorf("body = %s, want the original message", rec.Body)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"nope","password":"hunter2hunter2","full_name":"A"}`},
		{"short password", `{"email":"a@example.com","password":"short","full_name":"A"}`},
		{"missing name", `{"email":"a@example.com","password":"hunter2hunter2"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/signup", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400 (%s)", rec.Code, rec.Body)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp.Details) == 0 {
				t.Errorf("want field details, got %s", rec.Body)
			}
		})
	}
}

func TestSigninWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@example.com")

	rec := env.do(t, http.MethodPost, "/auth/signin",
		`{"email":"a@example.com","password":"wrong-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401 (%s)", rec.Code, rec.Body)
	}
}

func TestBorrowRepayFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@example.com")
	env.mem.SeedPool(poolDomain.Pool{Asset: "USDC", TotalLiquidity: 10000, BorrowRatePct: 12})

	rec := env.do(t, http.MethodPost, "/borrow",
		`{"asset":"USDC","principal":1000,"collateral_asset":"ETH","collateral_amount":1,"duration_months":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("borrow code = %d (%s)", rec.Code, rec.Body)
	}
	var created struct {
		Loan struct {
			LoanID string `json:"loan_id"`
			Status string `json:"status"`
		} `json:"loan"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body)
	}
	if created.Loan.Status != "active" || len(created.Loan.LoanID) != 32 {
		t.Fatalf("loan = %+v", created.Loan)
	}

	rec = env.do(t, http.MethodPost, "/loans/"+created.Loan.LoanID+"/repay", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("repay code = %d (%s)", rec.Code, rec.Body)
	}

	// settled loans cannot be repaid twice
	rec = env.do(t, http.MethodPost, "/loans/"+created.Loan.LoanID+"/repay", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second repay code = %d, want 409 (%s)", rec.Code, rec.Body)
	}

	// the on-time reward shows up on the score
	rec = env.do(t, http.MethodGet, "/credit/score", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("score code = %d", rec.Code)
	}
	var score struct {
		Score    int    `json:"score"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &score); err != nil {
		t.Fatalf("decode score: %v", err)
	}
	if score.Score != creditUC.PointsOnTimeRepayment || score.Category != "New" {
		t.Errorf("score = %+v, want 20/New", score)
	}
}

func TestBorrowValidation(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@example.com")

	cases := []struct {
		name string
		body string
	}{
		{"lowercase asset", `{"asset":"usdc","principal":100,"collateral_asset":"ETH","collateral_amount":1,"duration_months":3}`},
		{"three decimals", `{"asset":"USDC","principal":100.555,"collateral_asset":"ETH","collateral_amount":1,"duration_months":3}`},
		{"zero duration", `{"asset":"USDC","principal":100,"collateral_asset":"ETH","collateral_amount":1,"duration_months":0}`},
		{"negative principal", `{"asset":"USDC","principal":-5,"collateral_asset":"ETH","collateral_amount":1,"duration_months":3}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/borrow", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400 (%s)", rec.Code, rec.Body)
			}
		})
	}
}

func TestBorrowInsufficientLiquidity(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@example.com")
	env.mem.SeedPool(poolDomain.Pool{Asset: "USDC", TotalLiquidity: 100, BorrowRatePct: 12})

	rec := env.do(t, http.MethodPost, "/borrow",
		`{"asset":"USDC","principal":500,"collateral_asset":"ETH","collateral_amount":1,"duration_months":3}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400 (%s)", rec.Code, rec.Body)
	}
}

func TestRepayUnknownLoan(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@example.com")

	rec := env.do(t, http.MethodPost, "/loans/not-a-loan-id/repay", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id code = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/loans/0123456789abcdef0123456789abcdef/repay", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing loan code = %d, want 404 (%s)", rec.Code, rec.Body)
	}
}

func TestClaimDepositStreak_NotMet(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@example.com")

	rec := env.do(t, http.MethodPost, "/credit/deposit-streak", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400 with no qualifying deposits (%s)", rec.Code, rec.Body)
	}
}
