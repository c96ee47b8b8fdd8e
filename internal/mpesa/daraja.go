package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"
)

// DarajaConfig carries the Safaricom Daraja credentials.
type DarajaConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	Environment    string // "sandbox" or "production"
}

// DarajaClient is the live M-Pesa gateway: OAuth token fetch, STK push and
// STK push status query.
type DarajaClient struct {
	cfg        DarajaConfig
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewDarajaClient(cfg DarajaConfig) *DarajaClient {
	baseURL := sandboxBaseURL
	if cfg.Environment == "production" {
		baseURL = productionBaseURL
	}
	return &DarajaClient{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

func (c *DarajaClient) getAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mpesa oauth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("mpesa oauth: status %d: %s", resp.StatusCode, body)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("mpesa oauth decode: %w", err)
	}
	return tokenResp.AccessToken, nil
}

// password returns the base64(shortcode+passkey+timestamp) pair used by STK
// push and query requests. Timestamp format is YYYYMMDDHHmmss.
func (c *DarajaClient) password() (string, string) {
	timestamp := c.now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.cfg.Shortcode + c.cfg.Passkey + timestamp))
	return password, timestamp
}

func (c *DarajaClient) InitiateSTKPush(ctx context.Context, phoneNumber string, amount float64, accountReference, description string) (*STKPushResult, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := c.password()
	phone := NormalizePhone(phoneNumber)

	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.Shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int(math.Floor(amount)),
		"PartyA":            phone,
		"PartyB":            c.cfg.Shortcode,
		"PhoneNumber":       phone,
		"CallBackURL":       c.cfg.CallbackURL,
		"AccountReference":  accountReference,
		"TransactionDesc":   description,
	}

	var resp struct {
		CheckoutRequestID   string `json:"CheckoutRequestID"`
		MerchantRequestID   string `json:"MerchantRequestID"`
		ResponseCode        string `json:"ResponseCode"`
		ResponseDescription string `json:"ResponseDescription"`
		CustomerMessage     string `json:"CustomerMessage"`
		ErrorMessage        string `json:"errorMessage"`
	}
	if err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", accessToken, payload, &resp); err != nil {
		return nil, err
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("mpesa stk push: %s", resp.ErrorMessage)
	}

	return &STKPushResult{
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		ResponseCode:      resp.ResponseCode,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

func (c *DarajaClient) QuerySTKPush(ctx context.Context, checkoutRequestID string) (*QueryResult, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := c.password()
	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.Shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	var resp struct {
		ResultCode   string `json:"ResultCode"`
		ResultDesc   string `json:"ResultDesc"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := c.post(ctx, "/mpesa/stkpushquery/v1/query", accessToken, payload, &resp); err != nil {
		return nil, err
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("mpesa stk query: %s", resp.ErrorMessage)
	}

	return &QueryResult{ResultCode: resp.ResultCode, ResultDesc: resp.ResultDesc}, nil
}

func (c *DarajaClient) post(ctx context.Context, path, accessToken string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mpesa request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 500 {
		return fmt.Errorf("mpesa request %s: status %d: %s", path, resp.StatusCode, respBody)
	}
	return json.Unmarshal(respBody, out)
}
