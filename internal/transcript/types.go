// Package transcript decodes Claude Code JSONL work logs into conversational
// entries, tolerating the malformed and non-conversational lines that real
// log files contain.
package transcript

import (
	"encoding/json"
	"strings"
	"time"
)

// Roles an entry can carry. Anything else in a log file is not part of the
// conversational timeline and never leaves the assembler.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry represents a single decoded line in a JSONL work log.
type Entry struct {
	Type        string    `json:"type"`
	UUID        string    `json:"uuid"`
	ParentUUID  string    `json:"parentUuid"`
	SessionID   string    `json:"sessionId"`
	Timestamp   time.Time `json:"timestamp"`
	CWD         string    `json:"cwd"`
	Version     string    `json:"version"`
	IsSidechain bool      `json:"isSidechain"`
	RequestID   string    `json:"requestId,omitempty"`

	Message *Message `json:"message,omitempty"`

	// Project is the key of the source file's project directory, set by the
	// assembler. It is not part of the wire format.
	Project string `json:"-"`
}

// Role returns the conversational role of the entry.
func (e *Entry) Role() string {
	return e.Type
}

// Text returns the textual projection of the entry's content: string content
// verbatim, block-array content as the joined text blocks. Non-text blocks
// (tool use, thinking, attachments) are excluded.
func (e *Entry) Text() string {
	if e.Message == nil {
		return ""
	}
	return TextContent(e.Message)
}

// Message is the inner message object on user/assistant entries.
type Message struct {
	Role    string      `json:"role"`
	Model   string      `json:"model,omitempty"`
	ID      string      `json:"id,omitempty"`
	Content interface{} `json:"content"` // string or []ContentBlock
	Usage   *Usage      `json:"usage,omitempty"`
}

// ContentBlock represents one block in a content array.
type ContentBlock struct {
	Type      string      `json:"type"`
	Text      string      `json:"text,omitempty"`
	Thinking  string      `json:"thinking,omitempty"`
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"name,omitempty"`
	Input     interface{} `json:"input,omitempty"`
	ToolUseID string      `json:"tool_use_id,omitempty"`
	Content   interface{} `json:"content,omitempty"`
	IsError   bool        `json:"is_error,omitempty"`
}

// Usage tracks token consumption for an assistant message.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// ContentBlocks extracts typed content blocks from a message.
// Handles both string content and array content.
func ContentBlocks(msg *Message) []ContentBlock {
	if msg == nil {
		return nil
	}

	switch c := msg.Content.(type) {
	case string:
		return []ContentBlock{{Type: "text", Text: c}}
	case []interface{}:
		var blocks []ContentBlock
		for _, item := range c {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			b, err := json.Marshal(m)
			if err != nil {
				continue
			}
			var block ContentBlock
			if err := json.Unmarshal(b, &block); err != nil {
				continue
			}
			blocks = append(blocks, block)
		}
		return blocks
	}
	return nil
}

// TextContent extracts all text from a message, ignoring thinking and tool blocks.
func TextContent(msg *Message) string {
	blocks := ContentBlocks(msg)
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// IsToolResult reports whether a user entry only carries tool output rather
// than something the user typed.
func (e *Entry) IsToolResult() bool {
	if e.Message == nil {
		return false
	}
	blocks := ContentBlocks(e.Message)
	for _, b := range blocks {
		if b.Type == "tool_result" {
			return true
		}
	}
	return false
}
