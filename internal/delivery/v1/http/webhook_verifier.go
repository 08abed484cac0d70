package http

import (
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
	"github.com/zaytuna-store/go-backend/internal/cfg"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

// SvixVerifier — проверка подписи вебхуков библиотекой svix, которой
// подписывает события провайдер идентификации.
type SvixVerifier struct {
	wh *svix.Webhook
}

func NewSvixVerifier(cfg *cfg.AuthCfg) (*SvixVerifier, error) {
	wh, err := svix.NewWebhook(cfg.WebhookSecret)
	if err != nil {
		return nil, e.Wrap("svix webhook init", err)
	}

	return &SvixVerifier{wh: wh}, nil
}

func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	if err := v.wh.Verify(payload, headers); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidSignature)
	}

	return nil
}
