package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"fintrack/internal/dto"
	"fintrack/internal/finance"

	"github.com/google/uuid"
)

// Health calls GET /health, which sits outside /api.
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Authentication

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserProfileResponse, error) {
	var out successEnvelope[dto.UserProfileResponse]
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/users/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Login authenticates and stores the access token in the client's session.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	var out dto.TokenResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/users/login", nil, dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.session.Set(accessToken(out))
	return &out, nil
}

// Refresh rotates the token pair and stores the new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	var out dto.TokenResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/users/refresh", nil, dto.RefreshTokenRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}
	c.session.Set(accessToken(out))
	return &out, nil
}

// Logout revokes the current token. The session is cleared even when the
// request fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()
	return c.do(ctx, http.MethodPost, apiPrefix+"/users/logout", nil, nil, nil)
}

func accessToken(t dto.TokenResponse) string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.Token
}

// Profile

func (c *Client) Profile(ctx context.Context) (*dto.UserProfileResponse, error) {
	var out dto.UserProfileResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	var out dto.UserProfileResponse
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/users/me", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PatchProfile(ctx context.Context, req dto.PatchProfileRequest) (*dto.UserProfileResponse, error) {
	var out dto.UserProfileResponse
	if err := c.do(ctx, http.MethodPatch, apiPrefix+"/users/me", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, apiPrefix+"/users/me", nil, nil, nil); err != nil {
		return err
	}
	c.session.Clear()
	return nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, apiPrefix+"/users/me/password", nil,
		dto.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}

// UploadAvatar sends file as the multipart field "file" and returns the public URL.
func (c *Client) UploadAvatar(ctx context.Context, filename string, file io.Reader) (string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", &APIError{Kind: KindNetwork, Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", &APIError{Kind: KindNetwork, Err: fmt.Errorf("read avatar: %w", err)}
	}
	if err := w.Close(); err != nil {
		return "", &APIError{Kind: KindNetwork, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/users/me/avatar", body)
	if err != nil {
		return "", &APIError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	raw, err := c.send(req)
	if err != nil {
		return "", err
	}
	var out dto.AvatarResponse
	if err := decodeObject(raw, &out); err != nil {
		return "", err
	}
	return out.FileURL, nil
}

func (c *Client) Activity(ctx context.Context, page, limit int) (*dto.ActivityListResponse, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out dto.ActivityListResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/users/me/activity", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Settings

func (c *Client) Preferences(ctx context.Context) (*dto.PreferencesResponse, error) {
	var out dto.PreferencesResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/preferences", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePreferences(ctx context.Context, req dto.PreferencesRequest) (*dto.PreferencesResponse, error) {
	var out dto.PreferencesResponse
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/preferences", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Notifications(ctx context.Context) (*dto.NotificationsResponse, error) {
	var out dto.NotificationsResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/notifications", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNotifications(ctx context.Context, req dto.NotificationsRequest) (*dto.NotificationsResponse, error) {
	var out dto.NotificationsResponse
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/notifications", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions

func transactionQuery(q dto.TransactionListQuery) url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("startDate", q.StartDate)
	set("endDate", q.EndDate)
	set("category", q.Category)
	set("type", q.Type)
	set("sort", q.Sort)
	set("range", q.Range)
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// RawTransactions lists transactions exactly as the server sent them.
func (c *Client) RawTransactions(ctx context.Context, q dto.TransactionListQuery) ([]finance.RawTransaction, error) {
	return getList[finance.RawTransaction](ctx, c, apiPrefix+"/transactions", transactionQuery(q))
}

// Transactions lists and normalizes transactions. Records that cannot be
// normalized are dropped and logged.
func (c *Client) Transactions(ctx context.Context, q dto.TransactionListQuery) ([]finance.Transaction, error) {
	raws, err := c.RawTransactions(ctx, q)
	if err != nil {
		return nil, err
	}
	txs, dropped := finance.NormalizeAll(raws, nil)
	if dropped > 0 {
		c.logger.Warn("dropped malformed transactions", "count", dropped)
	}
	return txs, nil
}

func (c *Client) Transaction(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/transactions/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, req dto.TransactionRequest) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/transactions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id uuid.UUID, req dto.TransactionRequest) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/transactions/"+id.String(), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/transactions/"+id.String(), nil, nil, nil)
}

// Categories

func (c *Client) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	return getList[dto.CategoryResponse](ctx, c, apiPrefix+"/categories", nil)
}

func (c *Client) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	var out dto.CategoryResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/categories", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	var out dto.CategoryResponse
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/categories/"+id.String(), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/categories/"+id.String(), nil, nil, nil)
}

// Budgets

func (c *Client) Budgets(ctx context.Context) ([]dto.BudgetResponse, error) {
	return getList[dto.BudgetResponse](ctx, c, apiPrefix+"/budgets", nil)
}

func (c *Client) BudgetSummary(ctx context.Context) (*dto.BudgetSummaryResponse, error) {
	var out dto.BudgetSummaryResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/budgets/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*dto.BudgetResponse, error) {
	var out dto.BudgetResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/budgets", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBudget(ctx context.Context, id uuid.UUID, req dto.UpdateBudgetRequest) (*dto.BudgetResponse, error) {
	var out dto.BudgetResponse
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/budgets/"+id.String(), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/budgets/"+id.String(), nil, nil, nil)
}

// Analytics

func analyticsQuery(rangeName string, limit int) url.Values {
	values := url.Values{}
	if rangeName != "" {
		values.Set("range", rangeName)
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	return values
}

// Overview fetches every dashboard aggregate. A limit of 0 uses the server's default top-N.
func (c *Client) Overview(ctx context.Context, rangeName string, limit int) (*dto.AnalyticsOverview, error) {
	var out dto.AnalyticsOverview
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/analytics/overview", analyticsQuery(rangeName, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AnalyticsSummary(ctx context.Context, rangeName string) (*dto.AnalyticsSummary, error) {
	var out dto.AnalyticsSummary
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/analytics/summary", analyticsQuery(rangeName, 0), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MonthlySeries(ctx context.Context, rangeName string) ([]dto.MonthlyPointResponse, error) {
	return getList[dto.MonthlyPointResponse](ctx, c, apiPrefix+"/analytics/monthly", analyticsQuery(rangeName, 0))
}

func (c *Client) SpendingByCategory(ctx context.Context, rangeName string) ([]dto.CategorySpendResponse, error) {
	return getList[dto.CategorySpendResponse](ctx, c, apiPrefix+"/analytics/categories", analyticsQuery(rangeName, 0))
}

func (c *Client) BudgetComparison(ctx context.Context, rangeName string) ([]dto.BudgetComparisonResponse, error) {
	return getList[dto.BudgetComparisonResponse](ctx, c, apiPrefix+"/analytics/budgets", analyticsQuery(rangeName, 0))
}

func (c *Client) TopCategories(ctx context.Context, rangeName string, limit int) ([]dto.TopCategoryResponse, error) {
	return getList[dto.TopCategoryResponse](ctx, c, apiPrefix+"/analytics/top", analyticsQuery(rangeName, limit))
}

// GenerateDemoData calls the development seeding endpoint. months <= 0 uses the server default.
func (c *Client) GenerateDemoData(ctx context.Context, months int) (*dto.SeedResult, error) {
	var body any
	if months > 0 {
		body = dto.SeedRequest{Months: months}
	}
	var out successEnvelope[dto.SeedResult]
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/dev/demo-data", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
