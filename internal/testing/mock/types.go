package mock

// Content kinds a mock response can be delivered as.
const (
	// KindText delivers the response as a single text content block.
	KindText = "text"
	// KindStructured delivers the response only as structured content.
	KindStructured = "structured"
	// KindImage delivers a single image content block and no text.
	KindImage = "image"
)

// ToolConfig defines configuration for a mock tool
type ToolConfig struct {
	// Name is the unique identifier for the tool
	Name string `yaml:"name"`
	// Description describes what the tool does
	Description string `yaml:"description"`
	// Responses defines possible responses for this tool
	Responses []ToolResponse `yaml:"responses"`
}

// ToolResponse defines a conditional response for a mock tool
type ToolResponse struct {
	// Condition defines parameter matching for this response (optional).
	// If empty, this response is used as a fallback.
	Condition map[string]interface{} `yaml:"condition,omitempty"`
	// Response is the response data to return. Strings are rendered as
	// templates over the call arguments; maps and slices are sent as JSON text.
	Response interface{} `yaml:"response,omitempty"`
	// Kind selects how Response is delivered, KindText when empty.
	Kind string `yaml:"kind,omitempty"`
	// Error makes the tool report a tool-level error with this message.
	Error string `yaml:"error,omitempty"`
	// Delay simulates response latency (e.g., "2s", "500ms")
	Delay string `yaml:"delay,omitempty"`
}
