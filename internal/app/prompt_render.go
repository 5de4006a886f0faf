// prompt_render.go renders the selected shot's prompt as markdown for the
// shot config panel.
//
// Glamour is slow enough that rendering inside View would stall the UI while
// scrubbing, so renders run as Bubble Tea commands and land in promptCache.
// Entries are keyed by shot, prompt text and width bucket; a prompt edit or a
// resize past a bucket boundary simply misses the cache. Until the result
// arrives the panel shows the raw prompt.
//
// Glamour TermRenderer instances are cached per width bucket in an LRU
// protected by a mutex, since render commands run on background goroutines.
// The style comes from CLI_TIMELINE_GLAMOUR_STYLE or GLAMOUR_STYLE and
// defaults to "dark".
package app

import (
	"container/list"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// promptKey identifies one rendered prompt.
type promptKey struct {
	shotID string
	prompt string
	width  int
}

// promptRenderedMsg carries a finished render back to Update.
type promptRenderedMsg struct {
	key     promptKey
	content string
}

var (
	// maxRendererCacheEntries bounds the number of width-specific Glamour
	// renderers retained in memory.
	maxRendererCacheEntries = 8

	rendererCacheMu    sync.Mutex
	rendererCache      = map[int]*glamour.TermRenderer{}
	rendererCacheOrder = list.New() // front = least recently used
	rendererCacheNodes = map[int]*list.Element{}
)

// maxPromptCacheEntries bounds promptCache; it is cleared when full.
const maxPromptCacheEntries = 64

// promptTarget returns the key of the prompt the shot config panel shows.
func (m *Model) promptTarget() (promptKey, bool) {
	shot, ok := m.focusedShot()
	if !ok || strings.TrimSpace(shot.Prompt) == "" {
		return promptKey{}, false
	}
	d := m.calculateLayout()
	width := renderWidthBucket(max(d.RightWidth-4, 1))
	return promptKey{shotID: shot.ID, prompt: shot.Prompt, width: width}, true
}

// requestPromptRender starts rendering the focused shot's prompt unless it
// is cached or already in flight.
func (m *Model) requestPromptRender() tea.Cmd {
	key, ok := m.promptTarget()
	if !ok || m.width == 0 {
		return nil
	}
	if _, cached := m.promptCache[key]; cached || m.promptPending == key {
		return nil
	}
	m.promptPending = key
	return renderPromptCmd(key)
}

func renderPromptCmd(key promptKey) tea.Cmd {
	return func() tea.Msg {
		return promptRenderedMsg{key: key, content: renderMarkdown(key.prompt, key.width)}
	}
}

func (m *Model) handlePromptRendered(msg promptRenderedMsg) (tea.Model, tea.Cmd) {
	if m.promptPending == msg.key {
		m.promptPending = promptKey{}
	}
	if len(m.promptCache) >= maxPromptCacheEntries {
		clear(m.promptCache)
	}
	m.promptCache[msg.key] = strings.TrimSpace(msg.content)
	return m, nil
}

// renderedPrompt returns the cached render for key, or the raw prompt.
func (m *Model) renderedPrompt(key promptKey) string {
	if out, ok := m.promptCache[key]; ok {
		return out
	}
	return key.prompt
}

// renderMarkdown converts prompt text to ANSI output. If the renderer fails
// the raw text is returned so the user still sees the prompt.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := getRenderer(width)
	if err != nil {
		appLog.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		appLog.Error("render prompt markdown", "width", width, "error", err)
		return content
	}
	return out
}

// getRenderer returns a cached Glamour TermRenderer for width.
func getRenderer(width int) (*glamour.TermRenderer, error) {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	if renderer, ok := rendererCache[width]; ok {
		if node, ok := rendererCacheNodes[width]; ok {
			rendererCacheOrder.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamourStyleOption(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache[width] = renderer
	rendererCacheNodes[width] = rendererCacheOrder.PushBack(width)
	evictOldestRendererIfNeeded()
	return renderer, nil
}

func evictOldestRendererIfNeeded() {
	for len(rendererCache) > maxRendererCacheEntries && rendererCacheOrder.Len() > 0 {
		oldest := rendererCacheOrder.Front()
		width, _ := oldest.Value.(int)
		rendererCacheOrder.Remove(oldest)
		delete(rendererCache, width)
		delete(rendererCacheNodes, width)
	}
}

func resetRendererCacheForTests() {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	rendererCache = map[int]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[int]*list.Element{}
}

// glamourStyleOption resolves the Glamour style. The lookup order is
// CLI_TIMELINE_GLAMOUR_STYLE, then GLAMOUR_STYLE, then "dark". "dark" avoids
// the OSC background query that "auto" performs.
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv("CLI_TIMELINE_GLAMOUR_STYLE")))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv("GLAMOUR_STYLE")))
	}
	switch style {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
