package kite

import (
	"context"
	"errors"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"titan-trader/internal/interfaces"
	"titan-trader/internal/logger"
	"titan-trader/internal/types"
)

type Params struct {
	Mode        string
	APIKey      string
	AccessToken string
	Exchange    string
}

// Client places orders through Kite Connect. In DRY_RUN mode orders are
// simulated locally and never reach the broker.
type Client struct {
	p  Params
	kc *kiteconnect.Client
}

var _ interfaces.Broker = (*Client)(nil)

func NewClient(p Params) *Client {
	c := &Client{p: p}
	if p.Mode == "LIVE" && p.APIKey != "" {
		c.kc = kiteconnect.New(p.APIKey)
		c.kc.SetAccessToken(p.AccessToken)
	}
	return c
}

func (c *Client) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderAck, error) {
	if c.p.Mode == "DRY_RUN" {
		ack := types.OrderAck{
			OrderID: fmt.Sprintf("SIM-%d", time.Now().UnixNano()),
			Status:  "SIMULATED",
			Message: "dry-run",
		}
		logger.Info(ctx, "Simulated order placed",
			"symbol", req.Symbol, "side", req.Side, "qty", req.Qty, "order_id", ack.OrderID)
		return ack, nil
	}

	if c.p.APIKey == "" || c.p.AccessToken == "" || c.kc == nil {
		return types.OrderAck{}, errors.New("missing API key/access token")
	}

	resp, err := c.kc.PlaceOrder(kiteconnect.VarietyRegular, kiteconnect.OrderParams{
		Exchange:        c.p.Exchange,
		Tradingsymbol:   req.Symbol,
		TransactionType: transactionType(req.Side),
		OrderType:       kiteconnect.OrderTypeMarket,
		Quantity:        req.Qty,
		Product:         kiteconnect.ProductMIS,
		Validity:        kiteconnect.ValidityDay,
		Tag:             req.Tag,
	})
	if err != nil {
		return types.OrderAck{}, fmt.Errorf("kite order placement failed: %w", err)
	}

	return types.OrderAck{OrderID: resp.OrderID, Status: "PLACED", Message: "ok"}, nil
}

// transactionType maps a pipeline side onto a broker transaction type. CE
// signals buy call-style exposure, PE sells it.
func transactionType(s types.Side) string {
	if s.IsLong() {
		return kiteconnect.TransactionTypeBuy
	}
	return kiteconnect.TransactionTypeSell
}
