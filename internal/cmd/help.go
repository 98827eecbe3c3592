package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderRunHelp renders the help text for the run command with lipgloss styling
func renderRunHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	examples := []struct {
		title   string
		command []string
	}{
		{"Default cells, fish-eye projection", []string{"tesseractise run cube.stl -o cube-tesseract.3mf"}},
		{"Rotate in 4D before projecting", []string{
			"tesseractise run ring.obj -o ring.glb \\",
			"  --rotate X-W:30 --rotate Y-W:-15 --projection perspective",
		}},
		{"Selected cells, laid out on the build plate", []string{
			"tesseractise run part.scad -o cells.3mf --cells W-,X+,X- --layout grid",
		}},
		{"YAML job file", []string{"tesseractise run job.yaml"}},
	}
	for _, ex := range examples {
		b.WriteString(sectionStyle.Render(ex.title))
		b.WriteString("\n")
		for _, line := range ex.command {
			b.WriteString("  " + commandStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Values:"))
	b.WriteString("\n")

	values := []struct {
		flag string
		desc string
	}{
		{"Cells", "W- W+ X- X+ Y- Y+ Z- Z+"},
		{"Planes", "X-Y X-Z X-W Y-Z Y-W Z-W"},
		{"Angles", "degrees in [-360, 360]"},
		{"Formats", ".stl .3mf .obj .gltf .glb (inputs also .scad)"},
		{"Env", "TESSERACTISE_W_SCALE, _CAM_DISTANCE, _PROJECTION, _WORKERS"},
	}

	// Calculate max flag width for alignment
	maxWidth := 0
	for _, v := range values {
		if len(v.flag) > maxWidth {
			maxWidth = len(v.flag)
		}
	}

	for _, v := range values {
		padding := strings.Repeat(" ", maxWidth-len(v.flag)+2)
		b.WriteString("  " + flagStyle.Render(v.flag) + padding + commentStyle.Render(v.desc))
		b.WriteString("\n")
	}

	return b.String()
}
