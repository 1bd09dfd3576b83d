// Package bridge forwards relay commands to the external hardware bridge
// that drives the physical pump. Delivery is at-most-once: a failed call is
// logged and reported as false, never retried. The recorded database state
// stays authoritative regardless of delivery outcome.
package bridge

import (
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/agrisense/agrisense-server/pkg/common"
)

const DefaultTimeout = 5 * time.Second

type Notifier interface {
	SetPump(mode string, on bool) bool
}

type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{
		httpClient: client,
		logger:     common.GetLoggerWith(common.LoggerNameBridge),
	}
}

// SetPump posts the relay command to the bridge's control endpoint. The
// bridge expects a form body: action=set_pump&mode=<mode>&state=1|0.
func (c *Client) SetPump(mode string, on bool) bool {
	state := "0"
	if on {
		state = "1"
	}

	resp, err := c.httpClient.R().
		SetFormData(map[string]string{
			"action": "set_pump",
			"mode":   mode,
			"state":  state,
		}).
		Post("/control.php")

	if err != nil {
		c.logger.Warn("Bridge call failed",
			zap.String("mode", mode),
			zap.String("state", state),
			zap.Error(err),
		)
		return false
	}

	if resp.IsError() {
		c.logger.Warn("Bridge returned error status",
			zap.String("mode", mode),
			zap.String("state", state),
			zap.Int("status_code", resp.StatusCode()),
		)
		return false
	}

	c.logger.Info("Bridge notified",
		zap.String("mode", mode),
		zap.String("state", state),
	)
	return true
}
