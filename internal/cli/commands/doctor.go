package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rapidslab/rapidsdev/internal/cli/config"
	"github.com/rapidslab/rapidsdev/internal/cmake"
)

// probe is one external tool check.
type probe struct {
	group    string
	name     string
	args     []string
	optional bool
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the development environment",
		Long: `Probe for the external tools the orchestrator invokes and report
their versions. Missing required tools are reported as errors; missing
optional tools as warnings.

When a dev container is configured, probes run inside it.`,
		Example: `  rapidsdev doctor`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContextWithoutStore(cmd)
			if err != nil {
				return err
			}
			return runDoctor(cmd, cc)
		},
	}
}

func runDoctor(cmd *cobra.Command, cc *CommandContext) error {
	probes := []probe{
		{group: "build tools", name: "cmake", args: []string{"--version"}},
		{group: "build tools", name: "python", args: []string{"--version"}},
		{group: "build tools", name: "nvcc", args: []string{"--version"}, optional: true},
		{group: "python tooling", name: "flake8", args: []string{"--version"}},
		{group: "python tooling", name: "pytest", args: []string{"--version"}, optional: true},
		{group: "analysis", name: "clangd", args: []string{"--version"}, optional: true},
	}
	for _, v := range cmake.SupportedGCCVersions {
		probes = append(probes, probe{
			group:    "compilers",
			name:     "gcc-" + strconv.Itoa(v),
			args:     []string{"--version"},
			optional: true,
		})
	}
	if cc.Cfg.Container != "" {
		probes = append(probes, probe{group: "environment", name: "docker", args: []string{"version", "--format", "{{.Server.Version}}"}})
	}

	r := cc.Renderer
	titleCaser := cases.Title(language.English)

	currentGroup := ""
	missing := 0
	for _, p := range probes {
		if p.group != currentGroup {
			currentGroup = p.group
			r.Header(titleCaser.String(currentGroup))
		}

		out, err := cc.Runner.Output(cmd.Context(), "", p.name, p.args...)
		if err != nil {
			if p.optional {
				r.Warning("%s: not found", p.name)
			} else {
				r.Error("%s: not found", p.name)
				missing++
			}
			continue
		}
		r.Success("%s: %s", p.name, firstLine(out))
	}

	r.Header("Environment")
	if _, err := os.Stat(cc.Cfg.RapidsRoot); err != nil {
		r.Error("rapids root %s: %v", cc.Cfg.RapidsRoot, err)
		missing++
	} else {
		r.Success("rapids root: %s", cc.Cfg.RapidsRoot)
	}
	if f := config.GetConfigFileUsed(); f != "" {
		r.Info("config file: %s", f)
	} else {
		r.Info("config file: none (using defaults)")
	}

	r.Header(titleCaser.String("projects"))
	rows := make([][]string, 0, len(cc.Registry.All()))
	for _, p := range cc.Registry.All() {
		rows = append(rows, []string{
			string(p.Name),
			statDir(p.SourceRoot),
			statDir(p.BuildDir),
			statFile(p.CompileDBLink()),
		})
	}
	r.Table([]string{"Project", "Checkout", "Configured", "Compile DB"}, rows)

	if missing > 0 {
		r.Error("%d required checks failed", missing)
	} else {
		r.Success("environment looks good")
	}
	return nil
}

func statDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "yes"
	}
	return "no"
}

func statFile(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "yes"
	}
	return "no"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
