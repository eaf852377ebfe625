package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
	"github.com/Trucker2827/sb1-wf5mkd/internal/ui"
)

// features is the static feature panel.
var features = []string{
	"Capture a whole monitor, with system audio",
	"Optional webcam overlay (picture-in-picture)",
	"Live preview, embedded or floating always-on-top",
	"One-key export to a timestamped WebM file",
}

// platformNotes is the static per-platform support panel.
var platformNotes = []string{
	"Linux: X11 capture (x11grab); Wayland sessions need XWayland",
	"macOS: grant Screen Recording permission on first use",
	"Windows: desktop capture via gdigrab; system audio needs a loopback device",
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusPanel())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderInfoPanels())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, ui.ErrorTextStyle.Render("✗ "+m.errorMessage))
	}

	sections = append(sections, m.renderFooter())

	if m.quitting {
		sections = append(sections, ui.DimStyle.Render("Shutting down..."))
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	var dot string
	if m.state.Recording {
		dot = ui.RecordingDotStyle.Render("●")
	} else {
		dot = ui.IdleDotStyle.Render("○")
	}
	title := ui.TitleStyle.Render("SCREENCAST")

	var display string
	if m.state.Display != "" {
		display = ui.DimStyle.Render(" — " + m.state.Display)
	}

	return dot + " " + title + display
}

func (m Model) renderStatusPanel() string {
	var lines []string

	if m.state.Recording {
		elapsed := m.state.Elapsed(time.Now()).Round(time.Second)
		lines = append(lines, fmt.Sprintf("%s  %s, %s captured",
			ui.RecordingDotStyle.Render("● REC"),
			elapsed,
			humanize.Bytes(uint64(m.state.ArtifactBytes)),
		))
	} else {
		lines = append(lines, ui.IdleDotStyle.Render("○ IDLE")+"  "+ui.StatusStyle.Render(m.statusText))
	}

	lines = append(lines, "Webcam:  "+m.renderWebcamState())
	lines = append(lines, "Preview: "+m.renderPreviewState())

	if m.state.HasArtifact() && !m.state.Recording {
		lines = append(lines, ui.ExportBadgeStyle.Render("◆")+fmt.Sprintf(" %s recorded — press d to download",
			humanize.Bytes(uint64(m.state.ArtifactBytes))))
	}
	if m.state.LastExportPath != "" {
		lines = append(lines, ui.DimStyle.Render("Saved: "+m.state.LastExportPath))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderWebcamState() string {
	switch {
	case m.state.WebcamState == capture.ResourceRequesting:
		return ui.StatusStyle.Render("requesting...")
	case m.state.WebcamVisible:
		return ui.WebcamOnStyle.Render("on")
	default:
		return ui.DimStyle.Render("off")
	}
}

func (m Model) renderPreviewState() string {
	switch {
	case !m.state.PreviewAttached:
		return ui.DimStyle.Render("—")
	case m.state.PreviewFloating:
		return "floating (always on top)"
	default:
		return "embedded"
	}
}

func (m Model) renderInfoPanels() string {
	var lines []string

	lines = append(lines, ui.PanelTitleStyle.Render("FEATURES"))
	for _, f := range features {
		lines = append(lines, "  • "+f)
	}
	lines = append(lines, "")
	lines = append(lines, ui.PanelTitleStyle.Render("PLATFORM NOTES"))
	for _, n := range platformNotes {
		lines = append(lines, ui.DimStyle.Render("  • "+n))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	type binding struct {
		key  string
		desc string
		off  bool
	}

	recordDesc := "start recording"
	if m.state.Recording {
		recordDesc = "stop recording"
	}
	webcamDesc := "enable webcam"
	if m.state.WebcamVisible {
		webcamDesc = "disable webcam"
	}

	bindings := []binding{
		{key: "r", desc: recordDesc},
		{key: "w", desc: webcamDesc},
		{key: "p", desc: "float preview", off: !m.state.PreviewAttached},
	}
	if m.state.HasArtifact() {
		bindings = append(bindings, binding{key: "d", desc: "download"})
	}
	bindings = append(bindings, binding{key: "q", desc: "quit"})

	var parts []string
	for _, b := range bindings {
		if b.off {
			parts = append(parts, ui.DimStyle.Render("["+b.key+"] "+b.desc))
			continue
		}
		parts = append(parts, ui.FooterKeyStyle.Render("["+b.key+"]")+" "+ui.FooterDescStyle.Render(b.desc))
	}
	return strings.Join(parts, "  ")
}
