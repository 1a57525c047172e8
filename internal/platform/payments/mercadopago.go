package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/rs/zerolog"
)

// MercadoPagoGateway collects payments through the Mercado Pago API.
type MercadoPagoGateway struct {
	client payment.Client
	logger zerolog.Logger
}

// NewMercadoPagoGateway initializes the SDK client with the given access token.
func NewMercadoPagoGateway(accessToken string, logger zerolog.Logger) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("create mercado pago config: %w", err)
	}

	return &MercadoPagoGateway{
		client: payment.NewClient(cfg),
		logger: logger,
	}, nil
}

// CreateCharge submits the payment to Mercado Pago and maps the provider
// response onto a Charge.
func (g *MercadoPagoGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if g == nil || g.client == nil {
		return nil, ErrNotConfigured
	}

	mpReq := payment.Request{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		PaymentMethodID:   req.Method,
		ExternalReference: req.Reference,
		Payer: &payment.PayerRequest{
			Email:     req.Payer.Email,
			FirstName: req.Payer.FirstName,
			LastName:  req.Payer.LastName,
		},
	}

	resp, err := g.client.Create(ctx, mpReq)
	if err != nil {
		g.logger.Error().Err(err).Str("reference", req.Reference).Msg("mercado pago charge failed")
		return nil, fmt.Errorf("create payment: %w", err)
	}

	charge := &Charge{
		ID:           fmt.Sprintf("%d", resp.ID),
		Status:       resp.Status,
		StatusDetail: resp.StatusDetail,
		Amount:       req.Amount,
		ProcessedAt:  time.Now().UTC(),
	}

	g.logger.Info().
		Str("charge_id", charge.ID).
		Str("status", charge.Status).
		Str("reference", req.Reference).
		Msg("mercado pago charge processed")

	return charge, nil
}
