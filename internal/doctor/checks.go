// Package doctor runs advisory checks on a loaded muse configuration.
// Findings here are warnings: the rule engine in internal/config remains the
// authority on what is fatally invalid.
package doctor

import (
	"fmt"
	"os"

	"github.com/lunahq/muse/internal/config"
)

// CheckEnvironment inspects the parts of the config that point at the local
// machine and returns a warning for anything that looks off.
func CheckEnvironment(cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}
	var warnings []string

	if cfg.Chat.Prompt != "" {
		if _, err := os.Stat(cfg.Chat.Prompt); err != nil {
			warnings = append(warnings, fmt.Sprintf("chat prompt file %q is not readable", cfg.Chat.Prompt))
		}
	}
	if cfg.System.Data != "" {
		if info, err := os.Stat(cfg.System.Data); err != nil || !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("system data directory %q does not exist", cfg.System.Data))
		}
	}
	if cfg.Transcript.Folder != "" {
		if info, err := os.Stat(cfg.Transcript.Folder); err != nil || !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("transcript folder %q does not exist", cfg.Transcript.Folder))
		}
	}
	if cfg.System.Port < 1 || cfg.System.Port > 65535 {
		warnings = append(warnings, fmt.Sprintf("system port %d is outside the usable range", cfg.System.Port))
	}
	if cfg.ImageGen.Enabled() && cfg.ImageGen.Params.Timeout <= 0 {
		warnings = append(warnings, "imagegen timeout is not positive; every render will abort immediately")
	}

	return warnings
}
