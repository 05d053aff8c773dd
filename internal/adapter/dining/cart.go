package dining

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/polkiloo/campusorder/internal/domain/model"
)

// checkoutChoiceID is the single checkout option the mobile app ever submits.
const checkoutChoiceID = "1"

const pickupWindow = 15 * time.Minute

// CartRequest is the outbound cart payload for both pricing and submission.
// Field names are the upstream wire contract.
type CartRequest struct {
	LocationID       string           `json:"location_id"`
	Items            []model.CartItem `json:"items"`
	GrandTotal       string           `json:"grand_total"`
	Subtotal         string           `json:"subtotal"`
	Tax              string           `json:"tax"`
	PickupStart      string           `json:"pickup_window_start,omitempty"`
	PickupEnd        string           `json:"pickup_window_end,omitempty"`
	CheckoutChoiceID string           `json:"checkout_choice_id,omitempty"`
	OrderType        string           `json:"order_type,omitempty"`
	SpecialComment   string           `json:"special_comment,omitempty"`
}

// PricingEcho is the server-computed (advisory) pricing of a cart.
type PricingEcho struct {
	GrandTotal string `json:"grand_total"`
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
}

// PricedCart keeps the server echo together with the exact payload that was
// sent, because submission reuses that payload with caller overrides.
type PricedCart struct {
	Request  CartRequest
	Response PricingEcho
}

// FinalizeOptions carry the caller-side fields injected before submission.
type FinalizeOptions struct {
	Pickup         time.Time
	OrderType      string
	SpecialRequest string
}

// Finalize builds the cart that actually gets submitted: the caller total
// overrides both monetary fields (the server price is advisory only), and
// the fixed checkout fields are injected.
func (p *PricedCart) Finalize(total int, opts FinalizeOptions) CartRequest {
	cart := p.Request
	amount := strconv.Itoa(total)
	cart.GrandTotal = amount
	cart.Subtotal = amount
	cart.CheckoutChoiceID = checkoutChoiceID
	if !opts.Pickup.IsZero() {
		cart.PickupStart = opts.Pickup.Format(time.RFC3339)
		cart.PickupEnd = opts.Pickup.Add(pickupWindow).Format(time.RFC3339)
	}
	cart.OrderType = opts.OrderType
	cart.SpecialComment = opts.SpecialRequest
	return cart
}

// PriceCart asks the server to price a cart. Monetary fields go out zeroed;
// the response is advisory and the exact request is retained for Finalize.
func (c *Client) PriceCart(ctx context.Context, items []model.CartItem, locationID string) (*PricedCart, error) {
	request := CartRequest{
		LocationID: locationID,
		Items:      items,
		GrandTotal: "0",
		Subtotal:   "0",
		Tax:        "0",
	}
	var echo PricingEcho
	if err := c.authorized(ctx, http.MethodPost, "/api/cart/price", nil, request, &echo); err != nil {
		return nil, err
	}
	return &PricedCart{Request: request, Response: echo}, nil
}

type submitResponse struct {
	OrderID string `json:"orderid"`
}

// SubmitOrder places the finalized cart and returns the upstream order id.
func (c *Client) SubmitOrder(ctx context.Context, cart CartRequest) (string, error) {
	var resp submitResponse
	if err := c.authorized(ctx, http.MethodPost, "/api/orders", nil, cart, &resp); err != nil {
		return "", err
	}
	if resp.OrderID == "" {
		return "", ErrOrderIDMissing
	}
	return resp.OrderID, nil
}
