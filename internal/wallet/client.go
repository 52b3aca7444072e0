package wallet

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Client calls the embedded-wallet provider. With no secret key configured it
// falls back to deterministic mock addresses so development and tests do not
// need the external service.
type Client struct {
	baseURL    string
	secretKey  string
	clientID   string
	httpClient *http.Client
}

// NewClient creates a wallet provider client.
func NewClient(baseURL, secretKey, clientID string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		clientID:  clientID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type createWalletRequest struct {
	UserID         string `json:"user_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Chain          string `json:"chain"`
}

type createWalletResponse struct {
	WalletAddress string `json:"wallet_address"`
}

// CreateWallet provisions an embedded wallet for the user and returns its
// public address.
func (c *Client) CreateWallet(ctx context.Context, userID uint) (string, error) {
	if c.baseURL == "" || c.secretKey == "" {
		return c.mockWallet(userID), nil
	}

	body, err := json.Marshal(createWalletRequest{
		UserID:         strconv.FormatUint(uint64(userID), 10),
		IdempotencyKey: uuid.New().String(),
		Chain:          "polygon",
	})
	if err != nil {
		return "", fmt.Errorf("marshal wallet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/backend-wallet/create", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build wallet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-secret-key", c.secretKey)
	if c.clientID != "" {
		req.Header.Set("x-client-id", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call wallet provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("wallet provider returned status %d", resp.StatusCode)
	}

	var out createWalletResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode wallet response: %w", err)
	}
	if out.WalletAddress == "" {
		return "", fmt.Errorf("wallet provider returned empty address")
	}
	return out.WalletAddress, nil
}

// mockWallet derives a stable address from the user id.
func (c *Client) mockWallet(userID uint) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("wallet_%d", userID)))
	return "0x" + hex.EncodeToString(sum[:])[:40]
}
