package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/yourorg/lead-scout/internal/models"
)

const systemPrompt = "You are an expert real estate investment analyst and professional communicator."

// OpenAI asks a chat completion model.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(1),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model}
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return text, nil
}

func (o *OpenAI) GenerateOutreachMessage(ctx context.Context, p models.Property) (string, error) {
	return o.complete(ctx, outreachPrompt(p))
}

func (o *OpenAI) AnalyzeROI(ctx context.Context, p models.Property) (models.ROIBreakdown, error) {
	text, err := o.complete(ctx, roiPrompt(p))
	if err != nil {
		return models.ROIBreakdown{}, err
	}
	roi := ParseROI(text, p)
	roi.Source = "openai"
	return roi, nil
}

func outreachPrompt(p models.Property) string {
	return fmt.Sprintf(`Generate a personalized outreach message for this property:

Address: %s
Price: %d
Type: %s
Days on Market: %s
Motivation Score: %s

The message should:
1. Be professional and friendly
2. Reference specific property details
3. Show market knowledge
4. Express genuine interest
5. Include a clear call to action
6. Be concise (max 200 words)

Write the message from the perspective of a real estate investor.`,
		p.Address, p.Price, orUnknown(p.PropertyType), intOrUnknown(p.DaysOnMarket), intOrUnknown(p.MotivationScore))
}

func roiPrompt(p models.Property) string {
	lastSold := "unknown"
	if p.LastSoldDate != nil {
		lastSold = *p.LastSoldDate
	}
	return fmt.Sprintf(`Analyze this property for investment potential:

Address: %s
Price: %d
Type: %s
Beds: %s
Baths: %s
Square Feet: %s
Year Built: %s
Days on Market: %s
Last Sold Price: %s
Last Sold Date: %s
Estimated Value: %s

Please provide a detailed investment analysis including:
1. Estimated repairs needed
2. Rehab costs
3. After Repair Value (ARV)
4. Potential monthly rental income
5. Estimated monthly expenses
6. Monthly cashflow
7. Cap rate
8. ROI
9. Summary of the investment opportunity
10. Recommendations

Format numbers without commas and use only digits for numerical values.`,
		p.Address, p.Price, orUnknown(p.PropertyType), floatOrUnknown(p.Beds), floatOrUnknown(p.Baths),
		intOrUnknown(p.Sqft), intOrUnknown(p.YearBuilt), intOrUnknown(p.DaysOnMarket),
		intOrUnknown(p.LastSoldPrice), lastSold, intOrUnknown(p.EstimatedValue))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func intOrUnknown(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprint(*v)
}

func floatOrUnknown(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprint(*v)
}
