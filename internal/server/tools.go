package server

// toolDefinitions describes the three query tools for tools/list.
func toolDefinitions() []map[string]any {
	return []map[string]any{
		{
			"name":        "analyze_work_period",
			"description": "Analyze work sessions over a date range",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"from_date": map[string]any{
						"type":        "string",
						"description": "Start date (YYYY-MM-DD)",
					},
					"to_date": map[string]any{
						"type":        "string",
						"description": "End date (YYYY-MM-DD)",
					},
					"project_filter": map[string]any{
						"type":        "string",
						"description": "Filter by project name",
					},
					"format": map[string]any{
						"type":        "string",
						"enum":        []string{"markdown", "json"},
						"description": "Output format",
					},
				},
			},
		},
		{
			"name":        "get_project_stats",
			"description": "Get statistics for a single project",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_name": map[string]any{
						"type":        "string",
						"description": "Project name",
					},
					"days": map[string]any{
						"type":        "integer",
						"description": "Trailing window in days",
					},
				},
				"required": []string{"project_name"},
			},
		},
		{
			"name":        "summarize_recent",
			"description": "Summarize recent work activity",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"days": map[string]any{
						"type":        "integer",
						"default":     defaultRecentDays,
						"description": "How many trailing days to summarize",
					},
				},
			},
		},
	}
}
