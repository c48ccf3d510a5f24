package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storelane/storelane-api/internal/crypto"
	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
	"github.com/storelane/storelane-api/pkg/paystack"
)

// Gateway is the payment-provider surface the bridge depends on. The concrete
// implementation is the Paystack client; tests substitute a fake.
type Gateway interface {
	CreateCustomer(ctx context.Context, req paystack.CustomerRequest) (*paystack.Customer, error)
	CreateSubscription(ctx context.Context, customerCode, planCode string) (*paystack.Subscription, error)
	InitializeTransaction(ctx context.Context, email string, amount float64, currency, reference string) (*paystack.Authorization, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Verification, error)
	ListSubscriptions(ctx context.Context, customerCode string) ([]paystack.Subscription, error)
}

// GatewayFactory builds a gateway client from a secret key. Storefront
// checkout runs against each store's own credentials, so clients are built
// per call from the decrypted key.
type GatewayFactory func(secretKey string) Gateway

// BillingStore is the persistence surface for subscriptions and payment
// configuration.
type BillingStore interface {
	UpsertSubscription(ctx context.Context, s *models.Subscription) error
	GetSubscription(ctx context.Context, storeID string) (*models.Subscription, error)
	GetSubscriptionByCustomer(ctx context.Context, customerCode string) (*models.Subscription, error)
	ListPendingSubscriptions(ctx context.Context) ([]models.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, storeID string, status models.SubscriptionStatus) error
	UpsertPaymentConfig(ctx context.Context, pc *models.PaymentConfig) error
	GetPaymentConfig(ctx context.Context, storeID string) (*models.PaymentConfig, error)
}

// CustomerStore is the persistence surface checkout needs for buyers.
type CustomerStore interface {
	Upsert(ctx context.Context, c *models.Customer) error
}

// OrderStore is the persistence surface checkout needs for orders.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
}

// PaymentService bridges billing and checkout to the payment gateway.
// Platform subscriptions run against the platform credentials; storefront
// checkout runs against each store's own encrypted credentials.
type PaymentService struct {
	billing    BillingStore
	customers  CustomerStore
	orders     OrderStore
	platform   Gateway
	newGateway GatewayFactory
	encryptor  *crypto.Encryptor
	plans      []models.Plan
	logger     zerolog.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(billing BillingStore, customers CustomerStore, orders OrderStore, platform Gateway,
	newGateway GatewayFactory, encryptor *crypto.Encryptor, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		billing:    billing,
		customers:  customers,
		orders:     orders,
		platform:   platform,
		newGateway: newGateway,
		encryptor:  encryptor,
		plans:      defaultPlans,
		logger:     logger.With().Str("component", "payment_service").Logger(),
	}
}

// defaultPlans is the static plan catalog. Plan codes must exist on the
// gateway; amounts are in major currency units.
var defaultPlans = []models.Plan{
	{Code: "PLN_starter", Name: "Starter", MonthlyPrice: 2500, Currency: "NGN"},
	{Code: "PLN_growth", Name: "Growth", MonthlyPrice: 7500, Currency: "NGN"},
	{Code: "PLN_scale", Name: "Scale", MonthlyPrice: 20000, Currency: "NGN"},
}

// ListPlans returns the plan catalog.
func (s *PaymentService) ListPlans() []models.Plan {
	return s.plans
}

func (s *PaymentService) planByCode(code string) (*models.Plan, error) {
	for i := range s.plans {
		if s.plans[i].Code == code {
			return &s.plans[i], nil
		}
	}
	return nil, fmt.Errorf("%w: unknown plan %q", utils.ErrValidation, code)
}

// SubscribeInput carries the contact fields the gateway requires to register
// a paying customer.
type SubscribeInput struct {
	PlanCode  string `json:"planCode"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// SubscribeResult pairs the pending local subscription with the gateway
// redirect for the first charge.
type SubscribeResult struct {
	Subscription *models.Subscription    `json:"subscription"`
	Redirect     *paystack.Authorization `json:"redirect"`
}

// Subscribe registers the store owner as a gateway customer, records a
// pending subscription, and initializes the first charge. The subscription
// turns active when the charge.success webhook arrives or the reconcile
// worker confirms it; activation also starts the recurring gateway
// subscription on the plan.
func (s *PaymentService) Subscribe(ctx context.Context, store *models.Store, user *models.User, in *SubscribeInput) (*SubscribeResult, error) {
	plan, err := s.planByCode(in.PlanCode)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, fmt.Errorf("%w: first name, last name and phone are required", utils.ErrValidation)
	}

	customer, err := s.platform.CreateCustomer(ctx, paystack.CustomerRequest{
		Email:     user.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGateway, err)
	}

	reference := uuid.New().String()
	redirect, err := s.platform.InitializeTransaction(ctx, user.Email, plan.MonthlyPrice, plan.Currency, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGateway, err)
	}

	sub := &models.Subscription{
		StoreID:        store.ID,
		PlanCode:       plan.Code,
		CustomerCode:   customer.CustomerCode,
		Status:         models.SubscriptionPending,
		TransactionRef: reference,
	}
	if err := s.billing.UpsertSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return &SubscribeResult{Subscription: sub, Redirect: redirect}, nil
}

// GetSubscription returns the store's subscription.
func (s *PaymentService) GetSubscription(ctx context.Context, storeID string) (*models.Subscription, error) {
	return s.billing.GetSubscription(ctx, storeID)
}

// CancelSubscription marks the store's subscription cancelled.
func (s *PaymentService) CancelSubscription(ctx context.Context, storeID string) error {
	return s.billing.UpdateSubscriptionStatus(ctx, storeID, models.SubscriptionCancelled)
}

// HandleWebhook processes an inbound gateway event. The signature is an
// HMAC-SHA512 over the raw body; a mismatch rejects the delivery before any
// parsing. charge.success activates the charging customer's subscription;
// unrecognized events are logged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature, webhookSecret string) error {
	if !utils.VerifySignature(rawBody, signature, webhookSecret) {
		return utils.ErrInvalidSignature
	}

	var event paystack.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook body", utils.ErrValidation)
	}

	switch event.Event {
	case "charge.success":
		return s.applyChargeSuccess(ctx, &event)
	default:
		s.logger.Info().Str("event", event.Event).Msg("Ignoring unhandled webhook event")
		return nil
	}
}

func (s *PaymentService) applyChargeSuccess(ctx context.Context, event *paystack.WebhookEvent) error {
	sub, err := s.billing.GetSubscriptionByCustomer(ctx, event.Data.Customer.CustomerCode)
	if err != nil {
		return err
	}
	if event.Data.Plan.PlanCode != "" {
		sub.PlanCode = event.Data.Plan.PlanCode
	}
	if event.Data.Reference != "" {
		sub.TransactionRef = event.Data.Reference
	}
	// Returning the gateway error keeps the subscription pending; the
	// provider redelivers the webhook and the reconcile worker retries too.
	if err := s.ensureGatewaySubscription(ctx, sub); err != nil {
		return err
	}
	sub.Status = models.SubscriptionActive
	if err := s.billing.UpsertSubscription(ctx, sub); err != nil {
		return err
	}
	s.logger.Info().Str("store_id", sub.StoreID).Str("plan", sub.PlanCode).Msg("Subscription activated")
	return nil
}

// ensureGatewaySubscription starts recurring billing for the customer. The
// first charge is a one-off transaction; once it settles the gateway needs an
// explicit subscription on the plan. An already-running gateway subscription
// is adopted instead of duplicated.
func (s *PaymentService) ensureGatewaySubscription(ctx context.Context, sub *models.Subscription) error {
	if sub.SubscriptionCode != "" {
		return nil
	}
	existing, err := s.platform.ListSubscriptions(ctx, sub.CustomerCode)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrGateway, err)
	}
	for i := range existing {
		if existing[i].PlanCode == sub.PlanCode && existing[i].Status != "cancelled" {
			sub.SubscriptionCode = existing[i].SubscriptionCode
			return nil
		}
	}
	created, err := s.platform.CreateSubscription(ctx, sub.CustomerCode, sub.PlanCode)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrGateway, err)
	}
	sub.SubscriptionCode = created.SubscriptionCode
	return nil
}

// ReconcilePending re-verifies every pending subscription against the
// gateway, activating those whose first charge settled. Covers webhook
// deliveries that never arrived.
func (s *PaymentService) ReconcilePending(ctx context.Context) error {
	pending, err := s.billing.ListPendingSubscriptions(ctx)
	if err != nil {
		return err
	}
	for i := range pending {
		sub := &pending[i]
		verification, err := s.platform.VerifyTransaction(ctx, sub.TransactionRef)
		if err != nil {
			s.logger.Warn().Err(err).Str("store_id", sub.StoreID).Msg("Subscription reconcile verify failed")
			continue
		}
		if !verification.Success {
			continue
		}
		if err := s.ensureGatewaySubscription(ctx, sub); err != nil {
			s.logger.Warn().Err(err).Str("store_id", sub.StoreID).Msg("Gateway subscription creation failed")
			continue
		}
		sub.Status = models.SubscriptionActive
		if err := s.billing.UpsertSubscription(ctx, sub); err != nil {
			s.logger.Warn().Err(err).Str("store_id", sub.StoreID).Msg("Subscription activation failed")
			continue
		}
		s.logger.Info().Str("store_id", sub.StoreID).Msg("Subscription reconciled to active")
	}
	return nil
}

// PaymentConfigInput carries a store's own gateway credentials.
type PaymentConfigInput struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// SavePaymentConfig encrypts and stores the store's gateway credentials.
func (s *PaymentService) SavePaymentConfig(ctx context.Context, storeID string, in *PaymentConfigInput) (*models.PaymentConfig, error) {
	if strings.TrimSpace(in.PublicKey) == "" || strings.TrimSpace(in.SecretKey) == "" {
		return nil, fmt.Errorf("%w: public and secret key are required", utils.ErrValidation)
	}
	cipherText, err := s.encryptor.Encrypt(storeID, in.SecretKey)
	if err != nil {
		return nil, err
	}
	pc := &models.PaymentConfig{StoreID: storeID, PublicKey: in.PublicKey, SecretKeyCipher: cipherText}
	if err := s.billing.UpsertPaymentConfig(ctx, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

// GetPaymentConfig returns the store's payment configuration. The secret key
// stays encrypted; only the public key is exposed.
func (s *PaymentService) GetPaymentConfig(ctx context.Context, storeID string) (*models.PaymentConfig, error) {
	return s.billing.GetPaymentConfig(ctx, storeID)
}

// storeGateway builds a gateway client from the store's decrypted secret key.
// The plaintext key lives only for the duration of the call and is never
// logged.
func (s *PaymentService) storeGateway(ctx context.Context, storeID string) (Gateway, error) {
	pc, err := s.billing.GetPaymentConfig(ctx, storeID)
	if err != nil {
		return nil, err
	}
	secretKey, err := s.encryptor.Decrypt(storeID, pc.SecretKeyCipher)
	if err != nil {
		return nil, err
	}
	return s.newGateway(secretKey), nil
}

// CartItem is one storefront cart line.
type CartItem struct {
	ProductName  string  `json:"productName"`
	VariantTitle *string `json:"variantTitle,omitempty"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
}

// CheckoutInput carries the cart and buyer contact fields.
type CheckoutInput struct {
	Items   []CartItem `json:"items"`
	Email   string     `json:"email"`
	Name    string     `json:"name"`
	Phone   string     `json:"phone"`
	Address string     `json:"address"`
}

// CheckoutResult pairs the created order with the gateway redirect.
type CheckoutResult struct {
	Order    *models.Order           `json:"order"`
	Redirect *paystack.Authorization `json:"redirect"`
}

// CartTotal sums the cart in major currency units.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Checkout records the buyer and a pending order, then initializes a gateway
// transaction against the store's own credentials and returns the redirect.
func (s *PaymentService) Checkout(ctx context.Context, store *models.Store, in *CheckoutInput) (*CheckoutResult, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", utils.ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Phone) == "" || strings.TrimSpace(in.Address) == "" {
		return nil, fmt.Errorf("%w: email, name, phone and address are required", utils.ErrValidation)
	}
	for _, item := range in.Items {
		if item.UnitPrice <= 0 || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cart items need a positive price and quantity", utils.ErrValidation)
		}
	}

	gateway, err := s.storeGateway(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:      uuid.New().String(),
		StoreID: store.ID,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}
	if err := s.customers.Upsert(ctx, customer); err != nil {
		return nil, err
	}

	reference := uuid.New().String()
	total := CartTotal(in.Items)
	redirect, err := gateway.InitializeTransaction(ctx, in.Email, total, store.Currency, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGateway, err)
	}

	order := &models.Order{
		ID:         uuid.New().String(),
		StoreID:    store.ID,
		CustomerID: &customer.ID,
		Number:     orderNumber(),
		Status:     models.OrderPending,
		Currency:   store.Currency,
		Total:      total,
		PaymentRef: reference,
		Address:    in.Address,
		Phone:      in.Phone,
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductName:  item.ProductName,
			VariantTitle: item.VariantTitle,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
		})
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order, Redirect: redirect}, nil
}

// VerifyCheckout queries the gateway for a transaction's settled status using
// the store's own credentials.
func (s *PaymentService) VerifyCheckout(ctx context.Context, storeID, reference string) (*paystack.Verification, error) {
	gateway, err := s.storeGateway(ctx, storeID)
	if err != nil {
		return nil, err
	}
	verification, err := gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGateway, err)
	}
	return verification, nil
}

// orderNumber derives a short human-facing order number.
func orderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
