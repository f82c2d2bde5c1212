package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/seatrans/seatrans/prompt"
)

// ---------------------------------------------------------------------------
// AWS Lambda translator backend
// ---------------------------------------------------------------------------

// LambdaRequest is the payload sent to a translator function.
type LambdaRequest struct {
	System  string `json:"system"`
	Content string `json:"content"`
	Model   string `json:"model"`
}

// LambdaResponse is the payload returned by a translator function.
type LambdaResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error,omitempty"`
}

// lambdaAPI is the subset of the Lambda client used here.
type lambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaInvoker translates chunks by invoking an AWS Lambda function
// synchronously.
type LambdaInvoker struct {
	client   lambdaAPI
	function string
}

// NewLambdaInvoker loads the default AWS configuration (environment,
// shared config, instance role) and returns an invoker for function.
func NewLambdaInvoker(ctx context.Context, function string) (*LambdaInvoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &LambdaInvoker{client: lambda.NewFromConfig(cfg), function: function}, nil
}

// Invoke sends req to the function and returns the trimmed translation.
func (l *LambdaInvoker) Invoke(ctx context.Context, req prompt.Request, model string) (string, error) {
	payload, err := json.Marshal(LambdaRequest{System: req.System, Content: req.Content, Model: model})
	if err != nil {
		return "", wrapRemote(err, "failed to marshal request")
	}

	result, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(l.function),
		Payload:      payload,
	})
	if err != nil {
		return "", wrapRemote(err, "failed to invoke %s", l.function)
	}
	if result.FunctionError != nil {
		return "", remoteErr("lambda error: %s: %s", *result.FunctionError, truncate(string(result.Payload), 500))
	}

	var resp LambdaResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return "", wrapRemote(err, "failed to parse response")
	}
	if resp.Error != "" {
		return "", remoteErr("translator error: %s", resp.Error)
	}
	text := strings.TrimSpace(resp.Translation)
	if text == "" {
		return "", remoteErr("%s: empty content", l.function)
	}
	return text, nil
}
