package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// SDKClient calls an OpenAI-compatible backend through the official SDK. The
// SDK does not decode the reply; its raw body goes through the same normalizer
// as the plain HTTP client.
type SDKClient struct {
	client *openai.Client
}

// NewSDKClient builds a client against baseURL/v1/ with SDK retries disabled.
func NewSDKClient(baseURL string, hc *http.Client) *SDKClient {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/v1/"),
		option.WithMaxRetries(0),
	}
	if hc != nil {
		opts = append(opts, option.WithHTTPClient(hc))
	}
	cli := openai.NewClient(opts...)
	return &SDKClient{client: &cli}
}

func (c *SDKClient) Send(ctx context.Context, req Request, timeout time.Duration) (RawResponse, error) {
	if c == nil || c.client == nil {
		return RawResponse{}, &Failure{Kind: KindUpstream, Detail: "nil openai client"}
	}
	ctx, cancel := withBudget(ctx, timeout)
	defer cancel()

	opts := make([]option.RequestOption, 0, len(req.Headers)+4)
	for k, v := range req.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	if _, ok := req.Headers["Authorization"]; !ok {
		// The SDK picks up OPENAI_API_KEY on its own; never forward it to an
		// arbitrary INFERENCE_ENDPOINT.
		opts = append(opts, option.WithHeaderDel("Authorization"))
	}
	var (
		httpResp *http.Response
		body     []byte
	)
	opts = append(opts,
		option.WithJSONSet("stream", req.Stream),
		option.WithResponseInto(&httpResp),
		option.WithResponseBodyInto(&body),
	)

	_, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: userMessages(req.Prompt),
	}, opts...)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return RawResponse{}, &Failure{
				Kind:   KindUpstream,
				Detail: fmt.Sprintf("%d %s\n%s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode), Truncate(apiErr.RawJSON(), MaxSnippet)),
				Err:    err,
			}
		}
		if httpResp != nil && httpResp.StatusCode >= 200 && httpResp.StatusCode <= 299 && !isTimeout(err) {
			return RawResponse{}, &Failure{Kind: KindSchema, Detail: err.Error(), Err: err}
		}
		return RawResponse{}, transportFailure(err)
	}

	status := http.StatusOK
	if httpResp != nil {
		status = httpResp.StatusCode
	}
	return RawResponse{StatusCode: status, Body: body}, nil
}

func userMessages(prompt string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(prompt),
				},
			},
		},
	}
}
