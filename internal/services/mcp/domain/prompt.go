package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ShoppingAssistancePrompt defines the MCP prompt guiding shopping sessions.
func ShoppingAssistancePrompt() *mcp.Prompt {
	return &mcp.Prompt{
		Name:        "shopping_assistance",
		Description: "A prompt to help users find and buy products.",
	}
}

// ShoppingAssistancePromptHandler returns the shopping assistance message.
func ShoppingAssistancePromptHandler() mcp.PromptHandler {
	return func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: "You are a helpful shopping assistant. Help " +
							"the user find products in the catalog and guide them through the checkout process. " +
							"Start by asking what they are looking for or show them the available products.",
					},
				},
			},
		}, nil
	}
}
