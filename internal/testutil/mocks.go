// Package testutil provides shared test doubles.
package testutil

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/mock"
)

// MockMessageClient is a mock of the slice of the Anthropic client used by
// the LLM judge.
type MockMessageClient struct {
	mock.Mock
}

func (m *MockMessageClient) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	args := m.Called(ctx, params)
	if msg := args.Get(0); msg != nil {
		return msg.(*anthropic.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// TextMessage builds a minimal judge response containing a single text block.
func TextMessage(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: text},
		},
	}
}
