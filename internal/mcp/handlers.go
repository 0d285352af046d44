// ABOUTME: MCP tool handler implementations for the rulekeeper server
// ABOUTME: Thin adapters from tool arguments to manager operations, JSON results out
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/rulekeeper/internal/manager"
	"github.com/harper/rulekeeper/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	manager *manager.Manager
}

// addResponse is the reply shape for add_rule and update_rule.
type addResponse struct {
	Accepted   bool                     `json:"accepted"`
	Rule       *models.Rule             `json:"rule,omitempty"`
	Validation *models.ValidationResult `json:"validation"`
}

// AddRule handles the add_rule tool
func (h *Handlers) AddRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ruleContext, err := request.RequireString("context")
	if err != nil {
		return mcp.NewToolResultError("context argument is required and must be a string"), nil
	}

	result, rule, err := h.manager.AddRule(ruleContext)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add failed: %v", err)), nil
	}

	return jsonResult(addResponse{
		Accepted:   result.IsValid,
		Rule:       rule,
		Validation: result,
	})
}

// CheckRule handles the check_rule tool
func (h *Handlers) CheckRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ruleContext, err := request.RequireString("context")
	if err != nil {
		return mcp.NewToolResultError("context argument is required and must be a string"), nil
	}

	result, err := h.manager.CheckRule(ruleContext)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}

	return jsonResult(result)
}

// ListRules handles the list_rules tool
func (h *Handlers) ListRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := h.manager.ListRules()

	response := struct {
		Count int           `json:"count"`
		Rules []models.Rule `json:"rules"`
	}{
		Count: len(rules),
		Rules: rules,
	}

	return jsonResult(response)
}

// UpdateRule handles the update_rule tool
func (h *Handlers) UpdateRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ruleID, err := request.RequireString("rule_id")
	if err != nil {
		return mcp.NewToolResultError("rule_id argument is required and must be a string"), nil
	}
	ruleContext, err := request.RequireString("context")
	if err != nil {
		return mcp.NewToolResultError("context argument is required and must be a string"), nil
	}

	result, rule, err := h.manager.UpdateRule(ruleID, ruleContext)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
	}

	return jsonResult(addResponse{
		Accepted:   result.IsValid,
		Rule:       rule,
		Validation: result,
	})
}

// DeleteRule handles the delete_rule tool
func (h *Handlers) DeleteRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ruleID, err := request.RequireString("rule_id")
	if err != nil {
		return mcp.NewToolResultError("rule_id argument is required and must be a string"), nil
	}

	if err := h.manager.DeleteRule(ruleID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Rule %s deleted", ruleID)), nil
}

// jsonResult marshals a response as an indented JSON tool result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
