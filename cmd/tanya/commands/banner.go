package commands

import (
	"fmt"

	"github.com/wicaksana/tanya/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(port int, knowledgePath string, languages []string) {
	cyan := "\033[36m"
	green := "\033[32m"
	yellow := "\033[33m"
	blue := "\033[34m"
	bold := "\033[1m"
	reset := "\033[0m"

	info := version.Get()

	fmt.Printf("\n%s%s", cyan, bold)
	fmt.Printf("   ╔══════════════════════════════════════╗\n")
	fmt.Printf("   ║                                      ║\n")
	fmt.Printf("   ║   ▀█▀ ▄▀▄ █▄ █ ▀▄▀ ▄▀▄               ║\n")
	fmt.Printf("   ║    █  █▀█ █ ▀█  █  █▀█  ?            ║\n")
	fmt.Printf("   ║                                      ║\n")
	fmt.Printf("   ╚══════════════════════════════════════╝%s\n\n", reset)

	fmt.Printf("%s%s┌─ tanya Info ────────────────────────────────────────┐%s\n", green, bold, reset)
	fmt.Printf("%s│%s Version:   %s (commit %s)\n", green, reset, info.Version, info.Short())
	fmt.Printf("%s│%s Built:     %s\n", green, reset, info.BuildTime)
	fmt.Printf("%s│%s Port:      %d\n", green, reset, port)
	fmt.Printf("%s│%s Knowledge: %s\n", green, reset, knowledgePath)
	fmt.Printf("%s│%s Languages: %v\n", green, reset, languages)
	fmt.Printf("%s└─────────────────────────────────────────────────────┘%s\n", green, reset)

	fmt.Printf("\n%s%s✨ POST /api/query or connect to /ws to chat%s\n", yellow, bold, reset)
	fmt.Printf("%s💡 Press Ctrl+C to stop%s\n\n", blue, reset)
}
