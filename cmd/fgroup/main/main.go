package main

import (
	"os"

	"github.com/arthur-debert/fgroup/cmd/fgroup"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	rootCmd := fgroup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// One diagnostic line, in red when stderr is a terminal
		errorStyle := lipgloss.NewRenderer(os.Stderr).NewStyle().Foreground(lipgloss.Color("9"))
		_, _ = os.Stderr.WriteString(errorStyle.Render("fgroup: "+err.Error()) + "\n")
		os.Exit(1)
	}
}
