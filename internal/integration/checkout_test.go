package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/metinatakli/storefront/api"
	"github.com/metinatakli/storefront/internal/domain"
)

type CheckoutTestSuite struct {
	BaseSuite
}

func TestCheckoutSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(CheckoutTestSuite))
}

func (s *CheckoutTestSuite) TestOneTimeCheckout() {
	client := s.newSessionClient()
	base := s.server.URL

	input := api.AddCartItemRequest{
		ProductId:  TestProductId,
		Name:       TestProductName,
		UnitAmount: TestProductUnitAmount,
		Quantity:   2,
	}

	res := doJSON(s.T(), client, http.MethodPost, base+"/cart/items", input)
	s.Equal(http.StatusCreated, res.StatusCode)
	res.Body.Close()

	s.app.PaymentProvider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req domain.CheckoutRequest) bool {
		if req.Mode != domain.CheckoutModePayment || len(req.LineItems) != 2 {
			return false
		}

		fee := req.LineItems[1]
		return fee.Name == domain.FeeLineItemName && fee.UnitAmount == 150
	})).Return(&domain.CheckoutSession{ID: TestSessionId, URL: TestCheckoutUrl}, nil)

	res = doJSON(s.T(), client, http.MethodPost, base+"/checkout/session", nil)
	s.Equal(http.StatusOK, res.StatusCode)

	resp := decodeResponse[api.CheckoutSessionResponse](s.T(), res)
	s.Equal(TestCheckoutUrl, resp.RedirectUrl)
	s.Equal(TestSessionId, resp.SessionId)
}

func (s *CheckoutTestSuite) TestOneTimeCheckoutWithEmptyCart() {
	client := s.newSessionClient()

	res := doJSON(s.T(), client, http.MethodPost, s.server.URL+"/checkout/session", nil)
	s.Equal(http.StatusUnprocessableEntity, res.StatusCode)

	resp := decodeResponse[api.ErrorResponse](s.T(), res)
	s.Equal(domain.ErrEmptyCart.Error(), resp.Message)
}

func (s *CheckoutTestSuite) TestSubscriptionCheckout() {
	client := s.newSessionClient()

	s.app.PaymentProvider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req domain.CheckoutRequest) bool {
		if req.Mode != domain.CheckoutModeSubscription || len(req.LineItems) != 2 {
			return false
		}

		return req.LineItems[0].PriceID == TestPriceId &&
			req.LineItems[0].Recurring &&
			req.LineItems[1].Name == domain.FeeLineItemName
	})).Return(&domain.CheckoutSession{ID: TestSessionId, URL: TestCheckoutUrl}, nil)

	input := api.SubscriptionCheckoutRequest{
		ProductId:   TestProductId,
		ProductName: TestProductName,
		PriceId:     TestPriceId,
		ListPrice:   2000,
	}

	res := doJSON(s.T(), client, http.MethodPost, s.server.URL+"/checkout/subscription", input)
	s.Equal(http.StatusOK, res.StatusCode)

	resp := decodeResponse[api.CheckoutSessionResponse](s.T(), res)
	s.Equal(TestCheckoutUrl, resp.RedirectUrl)
}
