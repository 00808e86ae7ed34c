package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// splitFrontmatter separates YAML frontmatter from the markdown body.
// Content without a leading delimiter is all body.
func splitFrontmatter(content string) (yamlContent, body string, err error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return "", content, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", "", fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent = rest[:idx]
	body = rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")
	return yamlContent, body, nil
}

func joinFrontmatter(v any, body string) (string, error) {
	yamlBytes, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ParseNode parses a node.md file. The body becomes the description.
func ParseNode(content string) (*Node, error) {
	yamlContent, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var n Node
	if yamlContent != "" {
		if err := yaml.Unmarshal([]byte(yamlContent), &n); err != nil {
			return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
		}
	}
	n.Description = body
	return &n, nil
}

// SerializeNode renders a Node back to markdown with YAML frontmatter.
func SerializeNode(n *Node) (string, error) {
	return joinFrontmatter(n, n.Description)
}

// ParseGoal parses goal.md. Anything after the frontmatter is kept as a note.
func ParseGoal(content string) (*Goal, error) {
	yamlContent, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("goal.md: %w", err)
	}

	var g Goal
	if yamlContent != "" {
		if err := yaml.Unmarshal([]byte(yamlContent), &g); err != nil {
			return nil, fmt.Errorf("parsing goal frontmatter: %w", err)
		}
	}
	g.Note = strings.TrimSpace(body)
	return &g, nil
}

// SerializeGoal renders goal.md.
func SerializeGoal(g *Goal) (string, error) {
	return joinFrontmatter(g, g.Note)
}

// ParseCurriculum parses curriculum.md: frontmatter plus a numbered list of
// node ids.
func ParseCurriculum(content string) (*Curriculum, error) {
	yamlContent, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("curriculum.md: %w", err)
	}

	var c Curriculum
	if yamlContent != "" {
		if err := yaml.Unmarshal([]byte(yamlContent), &c); err != nil {
			return nil, fmt.Errorf("parsing curriculum frontmatter: %w", err)
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Strip leading "1. ", "2. ", etc.
		if i := strings.Index(line, "."); i > 0 && isDigits(line[:i]) {
			line = strings.TrimSpace(line[i+1:])
		}
		line = strings.TrimPrefix(line, "- ")
		if line != "" {
			c.Order = append(c.Order, line)
		}
	}

	return &c, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// SerializeCurriculum renders curriculum.md.
func SerializeCurriculum(c *Curriculum) (string, error) {
	var body strings.Builder
	for i, id := range c.Order {
		body.WriteString(fmt.Sprintf("%d. %s\n", i+1, id))
	}
	return joinFrontmatter(c, body.String())
}
