package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "generate_matches",
		Description: "Score every listing with open capacity against the student's profile, store the ranked matches (replacing earlier ones) and return them best first.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"student_id": stringProp("Student profile ID"),
			},
			"required": []string{"student_id"},
		},
	},
	{
		Name:        "get_matches",
		Description: "Return the student's stored matches without recomputing them, best score first.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"student_id": stringProp("Student profile ID"),
			},
			"required": []string{"student_id"},
		},
	},
	{
		Name:        "apply_to_listing",
		Description: "Record an application for a match and mark the match applied. Safe to retry.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"student_id": stringProp("Student profile ID"),
				"listing_id": stringProp("Listing ID from the match"),
				"match_id":   stringProp("Match ID"),
			},
			"required": []string{"student_id", "listing_id", "match_id"},
		},
	},
	{
		Name:        "list_listings",
		Description: "List internship listings. Only listings with open capacity unless all is true.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"all": map[string]any{
					"type":        "boolean",
					"description": "Include listings without capacity (default: false)",
				},
			},
		},
	},
	{
		Name:        "get_profile",
		Description: "Get a student profile.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"student_id": stringProp("Student profile ID"),
			},
			"required": []string{"student_id"},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get counts of profiles, listings, matches and applications.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}
