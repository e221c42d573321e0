package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the business knowledge base semantically. Returns matching entries with similarity scores."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// askAssistantTool defines the ask_assistant MCP tool.
var askAssistantTool = mcp.NewTool("ask_assistant",
	mcp.WithDescription("Ask the support assistant a question. Runs the full reply pipeline including retrieval and handoff rules."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to ask"),
	),
)

// getPersonalityTool defines the get_personality MCP tool.
var getPersonalityTool = mcp.NewTool("get_personality",
	mcp.WithDescription("Get the assistant's configured personality: name, role, tone, and business identity."),
)
