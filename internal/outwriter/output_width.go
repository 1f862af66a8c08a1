package outwriter

import (
	"os"

	"github.com/huangsam/utilstudy/internal/contract"
	"golang.org/x/term"
)

// GetMaxTablePathWidth returns how many columns a path cell may use once the
// other columns of a table, reserved wide, are accounted for.
func GetMaxTablePathWidth(cfg *contract.Config, reserved int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detectedWidth
		}
	}

	// borders, separators and padding
	available := termWidth - reserved - 20
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
