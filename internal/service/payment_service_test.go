package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/crypto"
	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
	"github.com/storelane/storelane-api/pkg/paystack"
)

type fakeBillingStore struct {
	subscriptions  map[string]*models.Subscription // keyed by store id
	paymentConfigs map[string]*models.PaymentConfig
}

func newFakeBillingStore() *fakeBillingStore {
	return &fakeBillingStore{
		subscriptions:  make(map[string]*models.Subscription),
		paymentConfigs: make(map[string]*models.PaymentConfig),
	}
}

func (f *fakeBillingStore) UpsertSubscription(_ context.Context, s *models.Subscription) error {
	cp := *s
	f.subscriptions[s.StoreID] = &cp
	return nil
}

func (f *fakeBillingStore) GetSubscription(_ context.Context, storeID string) (*models.Subscription, error) {
	s, ok := f.subscriptions[storeID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeBillingStore) GetSubscriptionByCustomer(_ context.Context, customerCode string) (*models.Subscription, error) {
	for _, s := range f.subscriptions {
		if s.CustomerCode == customerCode {
			cp := *s
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeBillingStore) ListPendingSubscriptions(_ context.Context) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range f.subscriptions {
		if s.Status == models.SubscriptionPending {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeBillingStore) UpdateSubscriptionStatus(_ context.Context, storeID string, status models.SubscriptionStatus) error {
	s, ok := f.subscriptions[storeID]
	if !ok {
		return utils.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeBillingStore) UpsertPaymentConfig(_ context.Context, pc *models.PaymentConfig) error {
	cp := *pc
	f.paymentConfigs[pc.StoreID] = &cp
	return nil
}

func (f *fakeBillingStore) GetPaymentConfig(_ context.Context, storeID string) (*models.PaymentConfig, error) {
	pc, ok := f.paymentConfigs[storeID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *pc
	return &cp, nil
}

type fakeCustomerStore struct {
	upserted []*models.Customer
}

func (f *fakeCustomerStore) Upsert(_ context.Context, c *models.Customer) error {
	f.upserted = append(f.upserted, c)
	return nil
}

type fakeOrderStore struct {
	created []*models.Order
}

func (f *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	f.created = append(f.created, o)
	return nil
}

// fakeGateway records calls and returns canned responses.
type fakeGateway struct {
	secretKey       string
	initAmounts     []float64
	verifications   map[string]*paystack.Verification
	gatewaySubs     []paystack.Subscription
	subscribedPlans []string
}

func (f *fakeGateway) CreateCustomer(_ context.Context, req paystack.CustomerRequest) (*paystack.Customer, error) {
	return &paystack.Customer{ID: 1, CustomerCode: "CUS_test", Email: req.Email}, nil
}

func (f *fakeGateway) CreateSubscription(_ context.Context, customerCode, planCode string) (*paystack.Subscription, error) {
	f.subscribedPlans = append(f.subscribedPlans, planCode)
	return &paystack.Subscription{SubscriptionCode: "SUB_test", PlanCode: planCode, Status: "active"}, nil
}

func (f *fakeGateway) InitializeTransaction(_ context.Context, email string, amount float64, currency, reference string) (*paystack.Authorization, error) {
	f.initAmounts = append(f.initAmounts, amount)
	return &paystack.Authorization{AuthorizationURL: "https://pay/redirect", Reference: reference}, nil
}

func (f *fakeGateway) VerifyTransaction(_ context.Context, reference string) (*paystack.Verification, error) {
	if v, ok := f.verifications[reference]; ok {
		return v, nil
	}
	return &paystack.Verification{Success: false}, nil
}

func (f *fakeGateway) ListSubscriptions(_ context.Context, customerCode string) ([]paystack.Subscription, error) {
	return f.gatewaySubs, nil
}

func newTestPaymentService(t *testing.T) (*PaymentService, *fakeBillingStore, *fakeGateway, map[string]*fakeGateway) {
	t.Helper()
	billing := newFakeBillingStore()
	platform := &fakeGateway{verifications: make(map[string]*paystack.Verification)}
	perKey := make(map[string]*fakeGateway)
	factory := func(secretKey string) Gateway {
		g, ok := perKey[secretKey]
		if !ok {
			g = &fakeGateway{secretKey: secretKey, verifications: make(map[string]*paystack.Verification)}
			perKey[secretKey] = g
		}
		return g
	}
	encryptor, err := crypto.NewEncryptor("test-master-key")
	require.NoError(t, err)

	svc := NewPaymentService(billing, &fakeCustomerStore{}, &fakeOrderStore{}, platform, factory, encryptor, zerolog.Nop())
	return svc, billing, platform, perKey
}

func TestSubscribeCreatesPendingSubscription(t *testing.T) {
	svc, billing, platform, _ := newTestPaymentService(t)
	store := &models.Store{ID: "store-1", Currency: "NGN"}
	user := &models.User{ID: "user-1", Email: "owner@example.com"}

	result, err := svc.Subscribe(context.Background(), store, user, &SubscribeInput{
		PlanCode:  "PLN_starter",
		FirstName: "Ada",
		LastName:  "Obi",
		Phone:     "+2348000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay/redirect", result.Redirect.AuthorizationURL)

	sub := billing.subscriptions["store-1"]
	require.NotNil(t, sub)
	assert.Equal(t, models.SubscriptionPending, sub.Status)
	assert.Equal(t, "CUS_test", sub.CustomerCode)
	assert.Equal(t, "PLN_starter", sub.PlanCode)
	require.Len(t, platform.initAmounts, 1)
	assert.Equal(t, 2500.0, platform.initAmounts[0])
}

func TestSubscribeValidation(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(t)
	store := &models.Store{ID: "store-1"}
	user := &models.User{ID: "user-1", Email: "owner@example.com"}

	_, err := svc.Subscribe(context.Background(), store, user, &SubscribeInput{PlanCode: "PLN_unknown", FirstName: "A", LastName: "B", Phone: "1"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Subscribe(context.Background(), store, user, &SubscribeInput{PlanCode: "PLN_starter"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func webhookBody(t *testing.T, event string, customerCode string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data": map[string]interface{}{
			"reference": "ref-1",
			"status":    "success",
			"customer":  map[string]string{"customer_code": customerCode},
			"plan":      map[string]string{"plan_code": "PLN_starter"},
		},
	})
	require.NoError(t, err)
	return body
}

func TestHandleWebhookActivatesSubscription(t *testing.T) {
	svc, billing, platform, _ := newTestPaymentService(t)
	billing.subscriptions["store-1"] = &models.Subscription{
		StoreID:      "store-1",
		PlanCode:     "PLN_starter",
		CustomerCode: "CUS_test",
		Status:       models.SubscriptionPending,
	}

	body := webhookBody(t, "charge.success", "CUS_test")
	sig := utils.GenerateSignature(body, "whsec")

	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig, "whsec"))
	assert.Equal(t, models.SubscriptionActive, billing.subscriptions["store-1"].Status)

	// Activation starts recurring billing on the gateway.
	assert.Equal(t, []string{"PLN_starter"}, platform.subscribedPlans)
	assert.Equal(t, "SUB_test", billing.subscriptions["store-1"].SubscriptionCode)
}

func TestHandleWebhookAdoptsExistingGatewaySubscription(t *testing.T) {
	svc, billing, platform, _ := newTestPaymentService(t)
	billing.subscriptions["store-1"] = &models.Subscription{
		StoreID:      "store-1",
		PlanCode:     "PLN_starter",
		CustomerCode: "CUS_test",
		Status:       models.SubscriptionPending,
	}
	platform.gatewaySubs = []paystack.Subscription{
		{SubscriptionCode: "SUB_existing", PlanCode: "PLN_starter", Status: "active"},
	}

	body := webhookBody(t, "charge.success", "CUS_test")
	sig := utils.GenerateSignature(body, "whsec")

	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig, "whsec"))
	assert.Empty(t, platform.subscribedPlans)
	assert.Equal(t, "SUB_existing", billing.subscriptions["store-1"].SubscriptionCode)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, billing, _, _ := newTestPaymentService(t)
	billing.subscriptions["store-1"] = &models.Subscription{
		StoreID: "store-1", CustomerCode: "CUS_test", Status: models.SubscriptionPending,
	}

	body := webhookBody(t, "charge.success", "CUS_test")
	err := svc.HandleWebhook(context.Background(), body, "bad-signature", "whsec")
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)
	assert.Equal(t, models.SubscriptionPending, billing.subscriptions["store-1"].Status)
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	svc, billing, _, _ := newTestPaymentService(t)
	billing.subscriptions["store-1"] = &models.Subscription{
		StoreID: "store-1", CustomerCode: "CUS_test", Status: models.SubscriptionPending,
	}

	body := webhookBody(t, "invoice.create", "CUS_test")
	sig := utils.GenerateSignature(body, "whsec")

	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig, "whsec"))
	assert.Equal(t, models.SubscriptionPending, billing.subscriptions["store-1"].Status)
}

func TestReconcilePendingActivatesSettledCharges(t *testing.T) {
	svc, billing, platform, _ := newTestPaymentService(t)
	billing.subscriptions["store-1"] = &models.Subscription{
		StoreID: "store-1", PlanCode: "PLN_starter", CustomerCode: "CUS_a",
		Status: models.SubscriptionPending, TransactionRef: "ref-ok",
	}
	billing.subscriptions["store-2"] = &models.Subscription{
		StoreID: "store-2", PlanCode: "PLN_starter", CustomerCode: "CUS_b",
		Status: models.SubscriptionPending, TransactionRef: "ref-nope",
	}
	platform.verifications["ref-ok"] = &paystack.Verification{Success: true, Amount: 2500, Currency: "NGN"}

	require.NoError(t, svc.ReconcilePending(context.Background()))
	assert.Equal(t, models.SubscriptionActive, billing.subscriptions["store-1"].Status)
	assert.Equal(t, "SUB_test", billing.subscriptions["store-1"].SubscriptionCode)
	assert.Equal(t, models.SubscriptionPending, billing.subscriptions["store-2"].Status)
}

func TestCartTotal(t *testing.T) {
	total := CartTotal([]CartItem{
		{ProductName: "Shirt", UnitPrice: 1500, Quantity: 2},
		{ProductName: "Cap", UnitPrice: 500, Quantity: 1},
	})
	assert.Equal(t, 3500.0, total)
}

func TestCheckoutUsesStoreCredentials(t *testing.T) {
	svc, _, _, perKey := newTestPaymentService(t)
	store := &models.Store{ID: "store-1", Currency: "NGN"}

	_, err := svc.SavePaymentConfig(context.Background(), store.ID, &PaymentConfigInput{
		PublicKey: "pk_live_x",
		SecretKey: "sk_live_x",
	})
	require.NoError(t, err)

	result, err := svc.Checkout(context.Background(), store, &CheckoutInput{
		Items: []CartItem{
			{ProductName: "Shirt", UnitPrice: 1500, Quantity: 2},
			{ProductName: "Cap", UnitPrice: 500, Quantity: 1},
		},
		Email:   "buyer@example.com",
		Name:    "Buyer",
		Phone:   "+2348000000001",
		Address: "1 Market Street",
	})
	require.NoError(t, err)

	assert.Equal(t, 3500.0, result.Order.Total)
	assert.Equal(t, models.OrderPending, result.Order.Status)
	require.Len(t, result.Order.Items, 2)

	// The checkout gateway was built from the decrypted store secret.
	gw, ok := perKey["sk_live_x"]
	require.True(t, ok, "expected a gateway constructed with the store's secret key")
	require.Len(t, gw.initAmounts, 1)
	assert.Equal(t, 3500.0, gw.initAmounts[0])
}

func TestCheckoutValidation(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(t)
	store := &models.Store{ID: "store-1", Currency: "NGN"}

	_, err := svc.Checkout(context.Background(), store, &CheckoutInput{})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Checkout(context.Background(), store, &CheckoutInput{
		Items: []CartItem{{ProductName: "Shirt", UnitPrice: 0, Quantity: 1}},
		Email: "b@e.c", Name: "B", Phone: "1", Address: "x",
	})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCheckoutWithoutPaymentConfig(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(t)
	store := &models.Store{ID: "store-1", Currency: "NGN"}

	_, err := svc.Checkout(context.Background(), store, &CheckoutInput{
		Items: []CartItem{{ProductName: "Shirt", UnitPrice: 100, Quantity: 1}},
		Email: "b@e.c", Name: "B", Phone: "1", Address: "x",
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestSavePaymentConfigEncryptsSecret(t *testing.T) {
	svc, billing, _, _ := newTestPaymentService(t)

	pc, err := svc.SavePaymentConfig(context.Background(), "store-1", &PaymentConfigInput{
		PublicKey: "pk_live_x",
		SecretKey: "sk_live_x",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "sk_live_x", pc.SecretKeyCipher)
	assert.NotContains(t, billing.paymentConfigs["store-1"].SecretKeyCipher, "sk_live_x")
}
