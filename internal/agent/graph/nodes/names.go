package nodes

// Names reported to callbacks for each step of a turn.
const (
	NodeResponsePrompt    = "ResponsePrompt"
	NodeResponseChatModel = "ResponseChatModel"
	NodeToolExecutor      = "ToolExecutor"
)
