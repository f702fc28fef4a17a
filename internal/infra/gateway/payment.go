package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fanlane/backstage/internal/domain"
)

const paymentTimeout = 10 * time.Second

// PaymentGateway charges actors through the platform's payment service.
// The result is opaque: a transaction reference on success, a
// domain.PaymentError otherwise. No retries happen here; a retried charge
// is a second charge.
type PaymentGateway struct {
	client   *http.Client
	endpoint string
}

func NewPaymentGateway(endpoint string) *PaymentGateway {
	return &PaymentGateway{
		client:   &http.Client{Timeout: paymentTimeout},
		endpoint: endpoint,
	}
}

type chargeRequest struct {
	ActorID  string  `json:"actorId"`
	ArtistID string  `json:"artistId"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
}

type chargeResponse struct {
	TransactionRef string `json:"transactionRef"`
	Error          string `json:"error,omitempty"`
}

func (g *PaymentGateway) Charge(ctx context.Context, actorID, artistID string, amount float64, method string) (string, error) {
	body, err := json.Marshal(chargeRequest{
		ActorID:  actorID,
		ArtistID: artistID,
		Amount:   amount,
		Method:   method,
	})
	if err != nil {
		return "", domain.PaymentError{Reason: "invalid charge request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/charge", bytes.NewReader(body))
	if err != nil {
		return "", domain.PaymentError{Reason: "invalid charge request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return "", domain.PaymentError{Reason: "payment service unreachable", Err: err}
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return "", domain.PaymentError{Reason: "payment response unreadable", Err: err}
	}

	var parsed chargeResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", domain.PaymentError{Reason: "payment response unreadable", Err: err}
	}

	if res.StatusCode != http.StatusOK {
		reason := parsed.Error
		if reason == "" {
			reason = fmt.Sprintf("charge rejected with status %d", res.StatusCode)
		}
		return "", domain.PaymentError{Reason: reason}
	}

	if parsed.TransactionRef == "" {
		return "", domain.PaymentError{Reason: "charge succeeded without a transaction reference"}
	}

	return parsed.TransactionRef, nil
}
