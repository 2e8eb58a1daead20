package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/export"
	"kharcha/internal/services"
)

type accountResponse struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Income   string `json:"income"`
	Rule     string `json:"rule"`
	Verified bool   `json:"verified"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		Username: a.Username,
		Email:    a.Email,
		Income:   a.Income.Decimal(),
		Rule:     a.RuleName,
		Verified: a.IsVerified,
	}
}

type expenseResponse struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

func toExpenseResponse(rec core.ExpenseRecord) expenseResponse {
	return expenseResponse{
		ID:       rec.ID,
		Date:     rec.Date.String(),
		Amount:   rec.Amount.Decimal(),
		Reason:   rec.Reason,
		Category: rec.Category,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	incomeCents, err := core.ParseNonNegativeCents(r.Form.Get("income"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid income")
		return
	}

	account, err := s.accounts.Register(r.Context(), services.RegisterParams{
		Username: sanitizeInput(r.Form.Get("username")),
		Secret:   r.Form.Get("password"),
		Email:    sanitizeInput(r.Form.Get("email")),
		Income:   core.Money{Cents: incomeCents},
		RuleName: sanitizeInput(r.Form.Get("rule")),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	account, err := s.accounts.Authenticate(r.Context(), sanitizeInput(r.Form.Get("username")), r.Form.Get("password"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	token, err := s.sessions.Create(account.Username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Destroy(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	token := strings.TrimPrefix(r.URL.Path, "/verify/")
	if token == "" || strings.Contains(token, "/") {
		writeError(w, http.StatusNotFound, "invalid verification token")
		return
	}

	account, err := s.accounts.Verify(r.Context(), token)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"rules": s.accounts.RuleNames()})
}

type comparisonResponse struct {
	Category string `json:"category"`
	Actual   string `json:"actual"`
	Ideal    string `json:"ideal"`
}

type dailyTotalResponse struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

type dashboardPayload struct {
	Username       string               `json:"username"`
	Income         string               `json:"income"`
	Rule           string               `json:"rule"`
	Categories     []string             `json:"categories"`
	Expenses       []expenseResponse    `json:"expenses"`
	CategoryTotals map[string]string    `json:"category_totals"`
	DailyTotals    []dailyTotalResponse `json:"daily_totals"`
	Comparison     []comparisonResponse `json:"comparison"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	ctx := r.Context()

	version, err := s.ledger.Version(ctx, username)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	key := username + ":" + strconv.FormatInt(version, 10)
	if payload, ok := s.dashCache.Get(key); ok {
		slog.DebugContext(ctx, "Dashboard cache hit", "owner", username, "version", version)
		writeJSON(w, http.StatusOK, payload)
		return
	}

	payload, err := s.buildDashboard(r, username)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.dashCache.Set(key, payload)
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) buildDashboard(r *http.Request, username string) (dashboardPayload, error) {
	ctx := r.Context()

	account, err := s.accounts.Get(ctx, username)
	if err != nil {
		return dashboardPayload{}, err
	}
	categories, err := s.ledger.Categories(ctx, username)
	if err != nil {
		return dashboardPayload{}, err
	}
	records, err := s.ledger.List(ctx, username)
	if err != nil {
		return dashboardPayload{}, err
	}
	totals, err := s.reports.CategoryTotals(ctx, username)
	if err != nil {
		return dashboardPayload{}, err
	}
	daily, err := s.reports.DailyTotals(ctx, username)
	if err != nil {
		return dashboardPayload{}, err
	}
	comparison, err := s.reports.Compare(ctx, username)
	if err != nil {
		return dashboardPayload{}, err
	}

	// Most recent spending first; same-day records newest on top.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date.Equal(records[j].Date.Time) {
			return records[i].ID > records[j].ID
		}
		return records[j].Date.Before(records[i].Date)
	})

	payload := dashboardPayload{
		Username:       account.Username,
		Income:         account.Income.Decimal(),
		Rule:           account.RuleName,
		Categories:     categories,
		Expenses:       make([]expenseResponse, 0, len(records)),
		CategoryTotals: make(map[string]string, len(totals)),
		DailyTotals:    make([]dailyTotalResponse, 0, len(daily)),
		Comparison:     make([]comparisonResponse, 0, len(comparison)),
	}
	for _, rec := range records {
		payload.Expenses = append(payload.Expenses, toExpenseResponse(rec))
	}
	for category, total := range totals {
		payload.CategoryTotals[category] = total.Decimal()
	}
	for _, d := range daily {
		payload.DailyTotals = append(payload.DailyTotals, dailyTotalResponse{
			Date:  d.Date.String(),
			Total: d.Total.Decimal(),
		})
	}
	for _, c := range comparison {
		payload.Comparison = append(payload.Comparison, comparisonResponse{
			Category: c.Category,
			Actual:   c.Actual.Decimal(),
			Ideal:    c.Ideal.Decimal(),
		})
	}

	return payload, nil
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}
	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	rec, err := s.ledger.Add(r.Context(), username, date, core.Money{Cents: cents},
		sanitizeInput(r.Form.Get("reason")), sanitizeInput(r.Form.Get("category")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(rec))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	records, err := s.ledger.List(r.Context(), username)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	filename := "expenses-" + username + "-" + time.Now().Format("2006-01-02")

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		err = export.WriteCSV(w, records)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		err = export.WriteXLSX(w, records)
	default:
		writeError(w, http.StatusBadRequest, "unsupported format, use csv or xlsx")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "error", err, "owner", username, "format", format)
	}
}
