// ABOUTME: MCP tool definitions and registration for the rulekeeper server
// ABOUTME: Exposes rule add/check/list/update/delete to LLM agents over stdio
package mcp

import (
	"github.com/harper/rulekeeper/internal/manager"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, mgr *manager.Manager) *Handlers {
	handlers := &Handlers{manager: mgr}

	// 1. add_rule - validate and persist a new rule
	server.AddTool(mcp.Tool{
		Name:        "add_rule",
		Description: "Add a new rule. The rule is auto-titled, checked for semantic overlap with existing rules, and persisted only if no overlap is found.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Free-text rule content, one statement per line",
				},
			},
			Required: []string{"context"},
		},
	}, handlers.AddRule)

	// 2. check_rule - validate without persisting
	server.AddTool(mcp.Tool{
		Name:        "check_rule",
		Description: "Check rule text for semantic overlap with existing rules without saving it. Returns the validation verdict and overlap evidence.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Free-text rule content to check",
				},
			},
			Required: []string{"context"},
		},
	}, handlers.CheckRule)

	// 3. list_rules - list all accepted rules
	server.AddTool(mcp.Tool{
		Name:        "list_rules",
		Description: "List all accepted rules with their titles, identifiers and creation times.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListRules)

	// 4. update_rule - re-validate and replace a rule's content
	server.AddTool(mcp.Tool{
		Name:        "update_rule",
		Description: "Update an existing rule's content. The new content is re-validated against all other rules; the title is regenerated and the identifier preserved.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rule_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the rule to update",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Replacement rule content",
				},
			},
			Required: []string{"rule_id", "context"},
		},
	}, handlers.UpdateRule)

	// 5. delete_rule - remove a rule and its embeddings
	server.AddTool(mcp.Tool{
		Name:        "delete_rule",
		Description: "Delete a rule by identifier. Its stored segment embeddings are removed best-effort.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rule_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the rule to delete",
				},
			},
			Required: []string{"rule_id"},
		},
	}, handlers.DeleteRule)

	return handlers
}
