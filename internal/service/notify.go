package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/memoriqr/memoriqr/internal/config"
)

// Notifier relays typed events to the email webhook. Delivery is best
// effort: failures are logged and swallowed so a dead webhook never
// fails the request that triggered it.
type Notifier interface {
	Send(ctx context.Context, event string, payload map[string]interface{})
}

type webhookNotifier struct {
	url    string
	client *http.Client
}

func NewNotifier(cfg config.WebhookConfig) Notifier {
	return &webhookNotifier{
		url:    cfg.URL,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (n *webhookNotifier) Send(ctx context.Context, event string, payload map[string]interface{}) {
	if n.url == "" {
		logutil.GetLogger(ctx).Warn("webhook url not configured, notification dropped", zap.String("event", event))
		return
	}
	body := map[string]interface{}{"type": event}
	for k, v := range payload {
		body[k] = v
	}
	data, err := json.Marshal(body)
	if err != nil {
		logutil.GetLogger(ctx).Error("encode webhook payload failed", zap.String("event", event), zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		logutil.GetLogger(ctx).Error("build webhook request failed", zap.String("event", event), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		logutil.GetLogger(ctx).Error("send webhook failed", zap.String("event", event), zap.Error(err))
		return
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		logutil.GetLogger(ctx).Error("webhook rejected event",
			zap.String("event", event),
			zap.String("status", fmt.Sprintf("%d", resp.StatusCode)),
		)
	}
}
