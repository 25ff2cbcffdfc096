package shopify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Service pushes approved price changes to the shop's admin API. All reads
// come from the warehouse database; this client only writes variant prices.
type Service struct {
	shopName    string
	apiVersion  string
	accessToken string
	client      *resty.Client
}

func NewService(shopName, apiVersion, accessToken string) *Service {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Service{
		shopName:    shopName,
		apiVersion:  apiVersion,
		accessToken: accessToken,
		client:      client,
	}
}

// Configured reports whether the client has credentials to write with.
func (s *Service) Configured() bool {
	return s.shopName != "" && s.accessToken != ""
}

type variantPayload struct {
	Variant struct {
		ID    int64  `json:"id"`
		Price string `json:"price"`
	} `json:"variant"`
}

// UpdateVariantPrice sets the price on one shop variant.
func (s *Service) UpdateVariantPrice(variantID string, price float64) error {
	id, err := strconv.ParseInt(variantID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid variant id %q: %w", variantID, err)
	}

	var payload variantPayload
	payload.Variant.ID = id
	payload.Variant.Price = fmt.Sprintf("%.2f", price)

	url := fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/variants/%d.json",
		s.shopName, s.apiVersion, id)

	resp, err := s.client.R().
		SetHeader("X-Shopify-Access-Token", s.accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put(url)
	if err != nil {
		return fmt.Errorf("failed to update variant %d: %w", id, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("variant %d update returned %d: %s", id, resp.StatusCode(), resp.String())
	}

	var updated variantPayload
	if err := json.Unmarshal(resp.Body(), &updated); err != nil {
		return fmt.Errorf("failed to parse variant response: %w", err)
	}
	if updated.Variant.Price != payload.Variant.Price {
		return fmt.Errorf("variant %d price not applied: sent %s, got %s",
			id, payload.Variant.Price, updated.Variant.Price)
	}
	return nil
}

// GetVariantPrice reads back the current shop price for one variant.
func (s *Service) GetVariantPrice(variantID string) (float64, error) {
	id, err := strconv.ParseInt(variantID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid variant id %q: %w", variantID, err)
	}

	url := fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/variants/%d.json",
		s.shopName, s.apiVersion, id)

	resp, err := s.client.R().
		SetHeader("X-Shopify-Access-Token", s.accessToken).
		Get(url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch variant %d: %w", id, err)
	}
	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("variant %d fetch returned %d", id, resp.StatusCode())
	}

	var payload variantPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return 0, fmt.Errorf("failed to parse variant response: %w", err)
	}
	price, err := strconv.ParseFloat(payload.Variant.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse variant price %q: %w", payload.Variant.Price, err)
	}
	return price, nil
}
