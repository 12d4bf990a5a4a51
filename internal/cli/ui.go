package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleCommand   = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey       = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// statusLine pairs an icon with its color.
type statusLine struct {
	icon  string
	style lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	lineWarning = statusLine{"!", styleWarning}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (l statusLine) print(msg string) {
	fmt.Println(l.style.Render(l.icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	lineSuccess.print(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	lineWarning.print(styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	lineInfo.print(fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Println("  " + styleDim.Render("→") + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(styleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// statsLine joins the frame facts into a dotted summary, e.g.
// "4 slices · sweep 50% · cached".
func statsLine(sliceCount int, sweep float64, cached bool) string {
	parts := []string{styleDim.Render(fmt.Sprintf("%d slices", sliceCount))}
	if sweep < 1 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("sweep %.0f%%", sweep*100)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	return "  " + strings.Join(parts, styleDim.Render(" · "))
}

func printStats(sliceCount int, sweep float64, cached bool) {
	fmt.Println(statsLine(sliceCount, sweep, cached))
}
