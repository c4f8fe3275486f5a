package model

import "time"

const searchGuidance = `When performing web searches, you can customize the search parameters based on the user's query:
- search_depth: Use 'advanced' for complex queries requiring in-depth information, 'basic' for simple queries (default: basic)
- max_results: Number of results to return, 1-20 (default: 5)
- time_range: Filter by time - 'day', 'week', 'month', 'year' (use for time-sensitive queries)
- include_answer: Set to true to include an AI-generated summary of the search results (default: true)
- include_images: Set to true to include image search results (useful for visual topics)
- include_domains/exclude_domains: Arrays of specific domains to include or exclude

Guidelines for choosing parameters:
- For recent news or events: use time_range='day' or 'week' and max_results=10
- For research topics: use search_depth='advanced' and max_results=15
- For simple factual questions: use search_depth='basic' and max_results=3
- For visual topics (art, design, places): use include_images=true
- For technical documentation: consider using include_domains with specific technical sites

Always choose parameters that best serve the user's information needs.`

// BuildSystemPrompt assembles the fixed system prompt for a turn: the date,
// the search-parameter guidance, and an optional user-configured prefix.
func BuildSystemPrompt(userPrompt string, now time.Time) string {
	prompt := "You are a helpful assistant with web search capabilities. The current date is " +
		now.Format("January 02, 2006") + ".\n\n" + searchGuidance
	if userPrompt != "" {
		prompt = userPrompt + "\n\n" + prompt
	}
	return prompt
}
