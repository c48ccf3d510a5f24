package paystack

// CustomerRequest carries the contact fields required to register a customer.
type CustomerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Customer is the gateway's customer record.
type Customer struct {
	ID           int64  `json:"id"`
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

type customerResponse struct {
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Data    Customer `json:"data"`
}

type subscriptionRequest struct {
	Customer string `json:"customer"`
	Plan     string `json:"plan"`
}

// Subscription is the gateway's subscription record.
type Subscription struct {
	SubscriptionCode string `json:"subscription_code"`
	PlanCode         string `json:"plan_code"`
	Status           string `json:"status"`
	EmailToken       string `json:"email_token"`
	NextPaymentDate  string `json:"next_payment_date"`
}

type subscriptionResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    Subscription `json:"data"`
}

type subscriptionListResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    []Subscription `json:"data"`
}

type initializeRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// Authorization is the redirect handle returned by transaction initialization.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type initializeResponse struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Data    Authorization `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// Verification is the normalized outcome of a transaction verify call.
type Verification struct {
	Success  bool
	Amount   float64
	Currency string
}

// WebhookEvent is the envelope of an inbound webhook delivery.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Customer  struct {
			CustomerCode string `json:"customer_code"`
			Email        string `json:"email"`
		} `json:"customer"`
		Plan struct {
			PlanCode string `json:"plan_code"`
		} `json:"plan"`
	} `json:"data"`
}
