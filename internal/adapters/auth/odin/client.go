package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"adopta-api/internal/platform/httpclient"
)

var (
	ErrOdinNotConfigured = errors.New("odin client not configured")
	ErrOdinUnauthorized  = errors.New("odin unauthorized")
	ErrOdinUpstream      = errors.New("odin upstream error")
)

const verifyPath = "/v1/tokens/verify"

// Config del cliente Odin (identity provider de usuarios y protectoras).
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration

	// Opcional, para tests.
	Transport http.RoundTripper
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.New(cfg.BaseURL,
		httpclient.WithName("odin"),
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithTransport(cfg.Transport),
	)
	if err != nil {
		return nil, fmt.Errorf("odin: %w", err)
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http.BaseURL() != "" && c.apiKey != ""
}

// Identity es el payload de /v1/tokens/verify.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Province string `json:"province"`

	Company *struct {
		Name     string `json:"name"`
		Approved bool   `json:"approved"`
	} `json:"company,omitempty"`

	Adopter *struct {
		HasChildren       bool   `json:"has_children"`
		HasOtherPets      bool   `json:"has_other_pets"`
		HousingType       string `json:"housing_type"`
		PrefersSmall      bool   `json:"prefers_small"`
		AvailableForWalks bool   `json:"available_for_walks"`
		AcceptsSick       bool   `json:"accepts_sick"`
		AcceptsOld        bool   `json:"accepts_old"`
		WantsCalm         bool   `json:"wants_calm"`
		HasJob            bool   `json:"has_job"`
		AnimalOftenAlone  bool   `json:"animal_often_alone"`
	} `json:"adopter,omitempty"`
}

// VerifyToken llama a Odin para validar el token y traer la identidad.
func (c *Client) VerifyToken(ctx context.Context, token string) (Identity, error) {
	if !c.IsConfigured() {
		return Identity{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrOdinUnauthorized
	}

	headers := map[string]string{
		c.apiKeyHeader:  c.apiKey,
		"Authorization": "Bearer " + token,
	}

	var out Identity
	err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   verifyPath,
		Header: headers,
		Body:   map[string]string{"token": token},
		Into:   &out,
	})
	if err != nil {
		switch status := httpclient.StatusOf(err); status {
		case 0:
			return Identity{}, fmt.Errorf("%w: %v", ErrOdinUpstream, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return Identity{}, ErrOdinUnauthorized
		default:
			return Identity{}, fmt.Errorf("%w: status=%d", ErrOdinUpstream, status)
		}
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return Identity{}, errors.New("odin response missing user_id")
	}
	return out, nil
}
