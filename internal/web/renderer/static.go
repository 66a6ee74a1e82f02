package renderer

import "fmt"

// Static block types whose content is rendered on the server.
const (
	BlockMarkdown = "markdown"
	BlockOrg      = "org"
	BlockHTML     = "html"
	BlockText     = "text"
)

// StaticBlock renders the content of a static page block. ok is false for
// block types that the front end renders from their data alone.
func StaticBlock(kind string, data map[string]any) (out string, ok bool, err error) {
	content, _ := data["content"].(string)
	switch kind {
	case BlockMarkdown:
		out, err = MarkdownToHTML(content)
	case BlockOrg:
		out, err = OrgToHTML(content)
	case BlockHTML, BlockText:
		out = Sanitize(content)
	default:
		return "", false, nil
	}
	if err != nil {
		return "", true, fmt.Errorf("error rendering %s block: %w", kind, err)
	}
	return out, true, nil
}
