package integration_test

const (
	// Product related constants
	TestProductId         = "prod_integration"
	TestProductName       = "Single Origin Beans"
	TestProductUnitAmount = 1500
	TestPriceId           = "price_integration"

	// Checkout related constants
	TestSessionId   = "cs_test_integration"
	TestCheckoutUrl = "https://checkout.stripe.com/c/pay/cs_test_integration"
)
