package services

import (
	"context"
	"net/http"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"captionly/internal/models/db_models"
	"captionly/pkg/utils"
)

type MidtransConfig struct {
	ServerKey string
	// Production switches the SDK to the live Midtrans environment.
	Production bool
	// Timeout bounds every gateway HTTP call.
	Timeout time.Duration
}

type GatewayCharge struct {
	Token       string
	RedirectURL string
}

type GatewayStatus struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
}

// PaymentGateway is the slice of the Midtrans API this core needs:
// open a Snap checkout and fetch the authoritative transaction status.
// Narrow on purpose so tests can substitute a fake.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, order *db_models.PaymentOrder, email, displayName string) (*GatewayCharge, error)

	// CheckStatus returns utils.ErrOrderNotFound when the gateway has
	// never heard of the order (forged or stale notification) and
	// utils.ErrPaymentGateway on transport or upstream failure.
	CheckStatus(ctx context.Context, orderID string) (*GatewayStatus, error)
}

type midtransGateway struct {
	snapClient snap.Client
	coreClient coreapi.Client
}

func NewMidtransGateway(cfg MidtransConfig) PaymentGateway {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := &midtrans.HttpClientImplementation{
		HttpClient: &http.Client{Timeout: timeout},
		Logger:     midtrans.GetDefaultLogger(env),
	}

	g := &midtransGateway{}
	g.snapClient.New(cfg.ServerKey, env)
	g.snapClient.HttpClient = httpClient
	g.coreClient.New(cfg.ServerKey, env)
	g.coreClient.HttpClient = httpClient
	return g
}

func (g *midtransGateway) CreateTransaction(ctx context.Context, order *db_models.PaymentOrder, email, displayName string) (*GatewayCharge, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderID,
			GrossAmt: order.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: displayName,
			Email: email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    "premium-upgrade",
			Name:  "Captionly Premium",
			Price: order.GrossAmount,
			Qty:   1,
		}},
		// Opaque correlation field the gateway echoes back in
		// notifications. Lookup key only, never authorization.
		CustomField1: order.AccountID.String(),
	}

	resp, err := g.snapClient.CreateTransaction(req)
	if err != nil {
		return nil, utils.ErrPaymentGateway
	}
	return &GatewayCharge{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

func (g *midtransGateway) CheckStatus(ctx context.Context, orderID string) (*GatewayStatus, error) {
	resp, err := g.coreClient.CheckTransaction(orderID)
	if err != nil {
		if err.StatusCode == http.StatusNotFound {
			return nil, utils.ErrOrderNotFound
		}
		return nil, utils.ErrPaymentGateway
	}
	return &GatewayStatus{
		OrderID:           resp.OrderID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
	}, nil
}
