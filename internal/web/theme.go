package web

// palette holds the colours for one theme.
type palette struct {
	Background      string
	UserBubble      string
	UserText        string
	AssistantBubble string
	AssistantText   string
	Foreground      string
}

var palettes = map[string]palette{
	"dark": {
		Background:      "#111827",
		UserBubble:      "#0b84ff",
		UserText:        "white",
		AssistantBubble: "#374151",
		AssistantText:   "white",
		Foreground:      "#f9fafb",
	},
	"light": {
		Background:      "#f9fafb",
		UserBubble:      "#0b84ff",
		UserText:        "white",
		AssistantBubble: "#e5e7eb",
		AssistantText:   "black",
		Foreground:      "#111827",
	},
}

// themeNames is the sidebar order.
var themeNames = []string{"dark", "light"}
