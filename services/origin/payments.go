package origin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trezcool/darasa/core"
)

// PaymentIntent asks the external gateway to start a checkout for a course.
type PaymentIntent struct {
	CourseID string  `json:"course_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

func (pi *PaymentIntent) Validate() error {
	pi.CourseID = core.CleanString(pi.CourseID)
	return core.Validate.Struct(pi)
}

// PaymentAuth is the gateway redirect target.
type PaymentAuth struct {
	AuthorizationURL string `json:"authorizationUrl"`
}

func (c *Client) CreatePaymentIntent(ctx context.Context, pi PaymentIntent) (PaymentAuth, error) {
	if err := pi.Validate(); err != nil {
		return PaymentAuth{}, err
	}
	var out PaymentAuth
	err := c.do(ctx, "origin.CreatePaymentIntent", http.MethodPost, "/payments/intent", pi, &out)
	return out, err
}

// PaymentResult is the out-of-band confirmation carried back on the redirect
// URL's query parameters.
type PaymentResult struct {
	Status  string
	Message string
}

// ParsePaymentRedirect extracts the payment result from a redirect URL and
// returns the URL with the status/message parameters cleared, so the result
// is consumed exactly once. A URL without a status yields a nil result.
func ParsePaymentRedirect(rawURL string) (*PaymentResult, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rawURL, err
	}
	q := u.Query()
	status := q.Get("status")
	if status == "" {
		return nil, rawURL, nil
	}
	res := &PaymentResult{Status: status, Message: q.Get("message")}
	q.Del("status")
	q.Del("message")
	u.RawQuery = q.Encode()
	return res, u.String(), nil
}
