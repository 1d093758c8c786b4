package main

import (
	"fmt"
	"io"

	"github.com/patrickgunnar/galadrielcss/internal/alerts"
)

// printAlert writes one alert to w using a checkmark/warning glyph
// convention (✓ success, ⚠ warning/error).
func printAlert(w io.Writer, a alerts.Alert, useColors, quiet bool) {
	if quiet {
		return
	}

	switch a.Kind {
	case alerts.KindSuccess:
		fmt.Fprintf(w, "%s %s (%dms)\n", renderStyle(styleGreen, "✓", useColors), a.Message, a.DurationMS)
	case alerts.KindInformation:
		fmt.Fprintf(w, "%s %s\n", renderStyle(styleCyan, "i", useColors), a.Message)
	case alerts.KindWarning:
		fmt.Fprintf(w, "%s %s\n", renderStyle(styleYellow, "⚠", useColors), a.Message)
	case alerts.KindNenyrError:
		fmt.Fprintf(w, "%s %s\n", renderStyle(styleRed, "⚠", useColors), a.NenyrPayload)
	case alerts.KindGaladriel:
		fmt.Fprintf(w, "%s [%s/%s] %s\n", renderStyle(styleRed, "⚠", useColors),
			a.GaladrielErr.Kind, a.GaladrielErr.Action, a.GaladrielErr.Message)
	default:
		fmt.Fprintf(w, "%s %s\n", renderStyle(styleGray, "·", useColors), a.Message)
	}
}

// runRenderer drains bus's subscription to w until ch is closed.
func runRenderer(w io.Writer, bus *alerts.Bus, useColors, quiet bool) chan alerts.Alert {
	ch := bus.Subscribe()
	go func() {
		for a := range ch {
			printAlert(w, a, useColors, quiet)
		}
	}()
	return ch
}
