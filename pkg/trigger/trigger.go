package trigger

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/getmentor/mentor-application-api/pkg/httpclient"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"go.uber.org/zap"
)

// ApplicationSubmitted is posted to the submission webhook
type ApplicationSubmitted struct {
	ApplicationID string `json:"applicationId"`
	DraftID       string `json:"draftId"`
	Email         string `json:"email"`
}

// CallAsync posts payload as JSON to triggerURL in the background.
// Failures are logged and never reach the caller. done, when non-nil, is
// called once the attempt has finished.
func CallAsync(triggerURL string, payload any, httpClient httpclient.Client, done func()) {
	if triggerURL == "" {
		if done != nil {
			done()
		}
		return
	}

	go func() {
		if done != nil {
			defer done()
		}

		body, err := json.Marshal(payload)
		if err != nil {
			logger.Error("Failed to encode trigger payload", zap.Error(err), zap.String("url", triggerURL))
			return
		}

		logger.Info("Calling trigger URL", zap.String("url", triggerURL))

		resp, err := httpClient.Post(triggerURL, "application/json", bytes.NewReader(body))
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", triggerURL))
			return
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("Trigger URL called successfully",
				zap.String("url", triggerURL),
				zap.Int("status_code", resp.StatusCode))
		} else {
			logger.Warn("Trigger URL returned non-success status",
				zap.String("url", triggerURL),
				zap.Int("status_code", resp.StatusCode))
		}
	}()
}
