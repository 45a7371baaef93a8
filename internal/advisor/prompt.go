package advisor

import (
	"os"
	"path/filepath"
	"strings"
)

// promptFile is looked up in the work directory. When present its contents
// replace the built-in system prompt.
const promptFile = "PROMPT.md"

// LoadPrompt returns the system prompt to use: the contents of PROMPT.md
// in dir when it exists and is non-empty, the built-in default otherwise.
func LoadPrompt(dir string) string {
	if dir == "" {
		return systemPrompt
	}
	data, err := os.ReadFile(filepath.Join(dir, promptFile))
	if err != nil {
		return systemPrompt
	}
	custom := strings.TrimSpace(string(data))
	if custom == "" {
		return systemPrompt
	}
	return custom
}
