// Package terminal prints the user-facing progress and outcome of a run.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kxue43/repo-cloner/catalog"
	"github.com/kxue43/repo-cloner/scaffold"
)

type Reporter struct {
	out    io.Writer
	errOut io.Writer
	styles styles
}

type styles struct {
	banner  lipgloss.Style
	welcome lipgloss.Style
	rule    lipgloss.Style
	start   lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	heading lipgloss.Style
	command lipgloss.Style
	failure lipgloss.Style
	hint    lipgloss.Style
}

var palette = struct {
	blue   lipgloss.Color
	green  lipgloss.Color
	yellow lipgloss.Color
	cyan   lipgloss.Color
	white  lipgloss.Color
	red    lipgloss.Color
	grey   lipgloss.Color
}{
	blue:   lipgloss.Color("12"),
	green:  lipgloss.Color("10"),
	yellow: lipgloss.Color("11"),
	cyan:   lipgloss.Color("14"),
	white:  lipgloss.Color("15"),
	red:    lipgloss.Color("9"),
	grey:   lipgloss.Color("245"),
}

// NewReporter writes progress and success output to out, failures to errOut.
func NewReporter(out, errOut io.Writer) *Reporter {
	return &Reporter{
		out:    out,
		errOut: errOut,
		styles: styles{
			banner:  lipgloss.NewStyle().Bold(true).Foreground(palette.blue).Border(lipgloss.DoubleBorder()).BorderForeground(palette.blue).Padding(0, 3),
			welcome: lipgloss.NewStyle().Foreground(palette.green),
			rule:    lipgloss.NewStyle().Foreground(palette.yellow),
			start:   lipgloss.NewStyle().Foreground(palette.blue),
			step:    lipgloss.NewStyle().Foreground(palette.yellow),
			success: lipgloss.NewStyle().Bold(true).Foreground(palette.green),
			heading: lipgloss.NewStyle().Foreground(palette.cyan),
			command: lipgloss.NewStyle().Foreground(palette.white),
			failure: lipgloss.NewStyle().Bold(true).Foreground(palette.red),
			hint:    lipgloss.NewStyle().Foreground(palette.grey),
		},
	}
}

func (r *Reporter) line(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}

func (r *Reporter) Banner() {
	r.line(r.out, r.styles.banner.Render("repo-cloner"))
	r.line(r.out, r.styles.welcome.Render("Welcome to repo-cloner! Let's create a new project."))
	r.line(r.out, r.styles.rule.Render(strings.Repeat("-", 50)))
}

// Enter implements scaffold.Observer.
func (r *Reporter) Enter(stage scaffold.Stage, req scaffold.Request, tmplt catalog.Template) {
	switch stage {
	case scaffold.Provisioning:
		r.line(r.out, r.styles.start.Render("🚀 Starting project: "+req.ProjectName))
		r.line(r.out, r.styles.step.Render(fmt.Sprintf("Cloning template %s from: %s", tmplt.ID, tmplt.URL)))
	case scaffold.Sanitizing:
		r.line(r.out, r.styles.step.Render("Removing the template's git history"))
	case scaffold.RewritingMetadata:
		r.line(r.out, r.styles.step.Render("Updating package metadata"))
	case scaffold.Reinitializing:
		r.line(r.out, r.styles.step.Render("Creating a fresh git repository"))
	default:
	}
}

func (r *Reporter) Success(res *scaffold.Result) {
	r.line(r.out, "\n"+r.styles.success.Render(fmt.Sprintf("✅ Project %s created successfully!", res.ProjectName)))
	r.line(r.out, "\n"+r.styles.heading.Render("To get started:"))

	for _, step := range res.NextSteps {
		r.line(r.out, r.styles.command.Render("  "+step))
	}
}

func (r *Reporter) Failure(err error) {
	r.line(r.errOut, r.styles.failure.Render("❌ Error during the process:")+" "+err.Error())

	if hint := hint(err); hint != "" {
		r.line(r.errOut, r.styles.hint.Render(hint))
	}
}

func hint(err error) string {
	switch scaffold.KindOf(err) {
	case scaffold.KindDestinationExists:
		return "Pick another project name or move the existing directory out of the way."
	case scaffold.KindFetch:
		return "Check your network connection and that the template repository is reachable."
	case scaffold.KindMalformedMetadata:
		return "The project directory was left as cloned; fix or remove its package.json."
	case scaffold.KindVersionControl:
		return "The project files are in place; the new git history may be incomplete."
	default:
		return ""
	}
}
