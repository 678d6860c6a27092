package integration_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/metinatakli/storefront/internal/domain"
	"github.com/metinatakli/storefront/internal/webhook"
)

type WebhookTestSuite struct {
	BaseSuite
}

func TestWebhookSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(WebhookTestSuite))
}

func (s *WebhookTestSuite) postWebhook(payload []byte, signature string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/webhook", bytes.NewReader(payload))
	s.Require().NoError(err)

	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	res, err := s.server.Client().Do(req)
	s.Require().NoError(err)

	return res
}

func (s *WebhookTestSuite) TestPaymentSucceededInvalidatesCachedViews() {
	ctx := context.Background()

	s.Require().NoError(s.app.Redis.Set(ctx, "views:orders", "cached", 0).Err())
	s.Require().NoError(s.app.Redis.Set(ctx, "views:customers/cus_9", "cached", 0).Err())

	payload := []byte(`{"id":"pi_9","customer":"cus_9","receipt_email":"sam@example.com"}`)
	event := &domain.WebhookEvent{
		Kind:       domain.EventPaymentSucceeded,
		DeliveryID: "evt_9",
		Payload:    payload,
	}

	s.app.PaymentProvider.On("VerifyWebhookSignature", payload, "t=1,v1=valid").Return(event, nil)

	res := s.postWebhook(payload, "t=1,v1=valid")
	s.Equal(http.StatusOK, res.StatusCode)

	result := decodeResponse[webhook.Result](s.T(), res)
	s.True(result.Success)
	s.True(result.Handled)
	s.Equal("pi_9", result.PaymentIntentID)

	remaining, err := s.app.Redis.Exists(ctx, "views:orders", "views:customers/cus_9").Result()
	s.NoError(err)
	s.EqualValues(0, remaining)

	var receipts int
	for _, email := range s.app.Mailer.GetSentEmails() {
		if email.Recipient == "sam@example.com" {
			receipts++
		}
	}
	s.Equal(1, receipts)
}

func (s *WebhookTestSuite) TestSubscriptionUpdatedInvalidatesCachedViews() {
	ctx := context.Background()

	s.Require().NoError(s.app.Redis.Set(ctx, "views:subscriptions", "cached", 0).Err())
	s.Require().NoError(s.app.Redis.Set(ctx, "views:subscriptions/sub_3", "cached", 0).Err())

	payload := []byte(`{"id":"sub_3","customer":"cus_3"}`)
	event := &domain.WebhookEvent{
		Kind:    domain.EventSubscriptionUpdated,
		Payload: payload,
	}

	s.app.PaymentProvider.On("VerifyWebhookSignature", payload, "t=1,v1=sub").Return(event, nil)

	res := s.postWebhook(payload, "t=1,v1=sub")
	s.Equal(http.StatusOK, res.StatusCode)

	result := decodeResponse[webhook.Result](s.T(), res)
	s.True(result.Handled)
	s.Equal("sub_3", result.SubscriptionID)

	remaining, err := s.app.Redis.Exists(ctx, "views:subscriptions", "views:subscriptions/sub_3").Result()
	s.NoError(err)
	s.EqualValues(0, remaining)
}

func (s *WebhookTestSuite) TestMissingSignatureIsRejected() {
	res := s.postWebhook([]byte(`{}`), "")
	s.Equal(http.StatusBadRequest, res.StatusCode)

	resp := decodeResponse[map[string]string](s.T(), res)
	s.Equal("missing stripe signature", resp["error"])
}

func (s *WebhookTestSuite) TestInvalidSignatureLeavesCachesAlone() {
	ctx := context.Background()

	s.Require().NoError(s.app.Redis.Set(ctx, "views:orders", "cached", 0).Err())

	payload := []byte(`{"id":"pi_forged"}`)
	s.app.PaymentProvider.On("VerifyWebhookSignature", payload, "t=1,v1=forged").
		Return(nil, errors.New("no valid signature found"))

	res := s.postWebhook(payload, "t=1,v1=forged")
	s.Equal(http.StatusBadRequest, res.StatusCode)
	res.Body.Close()

	exists, err := s.app.Redis.Exists(ctx, "views:orders").Result()
	s.NoError(err)
	s.EqualValues(1, exists)
}
