// lrigschat/services/mistral/stream.go
package mistral

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"lrigschat/lrigschat/utils/logging"

	"go.uber.org/zap"
)

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// CompleteStream runs a streaming chat completion. Delta content
// arrives on the first channel; the second carries at most one error
// and stays empty on a clean [DONE]. Both channels close when the
// stream ends. Status/auth failures surface as an immediate error
// before any channel is returned.
func (c *Client) CompleteStream(ctx context.Context, req CompletionRequest) (<-chan string, <-chan error, error) {
	defer logging.LogDuration(ctx, "mistral_complete_stream")()

	resp, err := c.post(ctx, req, true)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(ch)
			close(errCh)
			resp.Body.Close()
		}()

		reader := bufio.NewReader(resp.Body)
		for {
			select {
			case <-ctx.Done():
				logging.AppLogger.Info("mistral stream context cancelled")
				errCh <- ctx.Err()
				return
			default:
			}

			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return
				}
				logging.ErrorLogger.Error("mistral stream read error", zap.Error(err))
				errCh <- &ConnectionError{Err: err}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				logging.ErrorLogger.Error("mistral stream parse error",
					zap.Error(err), zap.String("raw_line", data))
				continue
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				select {
				case ch <- choice.Delta.Content:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
		}
	}()

	return ch, errCh, nil
}
