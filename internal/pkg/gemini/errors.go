package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// classify maps a raw service error onto the external error taxonomy.
func (c *Client) classify(err error) error {
	var ext *apperrors.ExternalError
	if errors.As(err, &ext) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewExternalError(apperrors.KindGeneric, err)
	}
	if isRateLimit(err) {
		ext = apperrors.NewExternalError(apperrors.KindRateLimit, err)
		ext.RetryAfter = c.cfg.RateLimitCooldown
		return ext
	}
	return apperrors.NewExternalError(apperrors.KindGeneric, err)
}

func isRateLimit(err error) bool {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "quota", "too many requests", "resource_exhausted"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// blocked reports whether the prompt or the first candidate was stopped by
// safety filtering.
func blocked(resp *genai.GenerateContentResponse) bool {
	if resp == nil {
		return false
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return true
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return false
	}
	switch resp.Candidates[0].FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
		return true
	}
	return false
}
