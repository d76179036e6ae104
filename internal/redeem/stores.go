package redeem

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/elsanchez/free-games-claimer/internal/browser"
	"github.com/elsanchez/free-games-claimer/internal/domain"
)

const (
	gogAPIPrefix       = "https://redeem.gog.com/"
	microsoftAPIPrefix = "https://purchase.mp.microsoft.com/"
)

// GOG submits codes on gog.com/redeem. The page must be logged in.
type GOG struct{}

func (GOG) Redeem(ctx context.Context, page browser.Page, code string) (string, error) {
	if err := page.Fill(ctx, "#codeInput", code); err != nil {
		return "", err
	}

	body, err := page.ExpectResponse(ctx, gogAPIPrefix, func() error {
		return page.Click(ctx, `[type="submit"]`)
	})
	if err != nil {
		return "", err
	}

	slog.Debug("gog redeem response", "body", string(body))
	return ClassifyGOG(body), nil
}

// ClassifyGOG maps a redeem.gog.com response such as {"reason":"code_used"} to a status
func ClassifyGOG(body []byte) string {
	var resp struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return unknownResponse(StoreGOG, body)
	}

	switch {
	case strings.Contains(resp.Reason, "captcha"):
		return domain.StatusRedeemCaptcha
	case resp.Reason == "code_used":
		return domain.StatusAlreadyRedeemed
	case resp.Reason == "code_not_found":
		return domain.StatusRedeemNotFound
	default:
		return unknownResponse(StoreGOG, body)
	}
}

// Microsoft submits codes on redeem.microsoft.com
type Microsoft struct{}

func (Microsoft) Redeem(ctx context.Context, page browser.Page, code string) (string, error) {
	if strings.HasPrefix(page.URL(), "https://login.") {
		slog.Warn("not logged in on microsoft; use the browser to login manually")
		return domain.StatusRedeemLogin, nil
	}

	body, err := page.ExpectResponse(ctx, microsoftAPIPrefix, func() error {
		return page.Fill(ctx, "[name=tokenString]", code)
	})
	if err != nil {
		return "", err
	}

	slog.Debug("microsoft redeem response", "body", string(body))
	status := ClassifyMicrosoft(body)
	if status == domain.StatusRedeemedUnsure {
		if err := page.Click(ctx, "#nextButton"); err != nil {
			return "", err
		}
	}
	return status, nil
}

// ClassifyMicrosoft maps a purchase.mp.microsoft.com response such as {"code":"NotFound"} to a status
func ClassifyMicrosoft(body []byte) string {
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Code == "NotFound" {
		return domain.StatusRedeemNotFound
	}
	return unknownResponse(StoreMicrosoft, body)
}

// unknownResponse keeps unseen response shapes visible for manual follow-up
func unknownResponse(store string, body []byte) string {
	slog.Info("redeemed successfully? unknown response, please check the store manually",
		"store", store, "response", string(body))
	return domain.StatusRedeemedUnsure
}
