package backend

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

const pathVerifyOTP = "/api/user/verifyOtp"

type verifyOTPRequest struct {
	OTP   string `json:"otp"`
	Email string `json:"email"`
}

// VerifyOTP submits the 6-digit code for email and returns the server's message, if any.
func (c *Client) VerifyOTP(ctx context.Context, otp, email string) (string, error) {
	body, err := jsonBody(verifyOTPRequest{OTP: otp, Email: email})
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("marshal verify otp payload: %w", err))
	}

	var ack messageBody
	if err := c.do(ctx, requestOpts{
		Operation: "verify_otp",
		Method:    http.MethodPost,
		Path:      pathVerifyOTP,
		Body:      body,
	}, &ack); err != nil {
		return "", err
	}
	return ack.Message, nil
}
