package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the blackboard banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _     _            _    _                         _ ", "#818cf8"},
		{"| |__ | | __ _  ___| | _| |__   ___   __ _ _ __ __| |", "#a78bfa"},
		{"| '_ \\| |/ _` |/ __| |/ / '_ \\ / _ \\ / _` | '__/ _` |", "#c084fc"},
		{"| |_) | | (_| | (__|   <| |_) | (_) | (_| | | | (_| |", "#e879f9"},
		{"|_.__/|_|\\__,_|\\___|_|\\_\\_.__/ \\___/ \\__,_|_|  \\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Success formats msg as a positive status line.
func Success(w io.Writer, msg string) string {
	out := termenv.NewOutput(w)
	return out.String("✔ " + msg).Foreground(out.Color("#22c55e")).String()
}

// Failure formats msg as a negative status line.
func Failure(w io.Writer, msg string) string {
	out := termenv.NewOutput(w)
	return out.String("✘ " + msg).Foreground(out.Color("#ef4444")).Bold().String()
}
