package compiledb

import (
	"regexp"
	"strings"
)

// Rule is one pure text substitution over a recorded command line.
type Rule struct {
	Name  string
	Apply func(string) string
}

var (
	chainedHostRe   = regexp.MustCompile(`\s*&&\s*/usr/local/bin/(gcc|g\+\+)\b.*$`)
	generateCodeRe  = regexp.MustCompile(`--generate-code=arch=compute_(\d+),code=\[?sm_\d+\]?`)
	gencodeRe       = regexp.MustCompile(`\s-gencode[= ]arch=\S+`)
	xcompilerEqRe   = regexp.MustCompile(`-Xcompiler=("[^"]*"|\S+)`)
	compilerOptsRe  = regexp.MustCompile(`--compiler-options=("[^"]*"|\S+)`)
)

// Rules returns the substitution sequence in application order. The
// order is load-bearing: stripChainedHostCompile deletes trailing text
// that later path rewrites must not see, and markCompileAsCUDA must run
// before injectCUDAInclude so the injection anchor exists.
func Rules() []Rule {
	return []Rule{
		{
			// nvcc records a chained host-compiler invocation after the
			// primary one; drop everything from the chain operator on.
			Name: "stripChainedHostCompile",
			Apply: func(s string) string {
				return chainedHostRe.ReplaceAllString(s, "")
			},
		},
		{
			// Translate code-generation flags into the single-arch
			// spelling clangd understands.
			Name: "simplifyGenerateCode",
			Apply: func(s string) string {
				return generateCodeRe.ReplaceAllString(s, "--cuda-gpu-arch=sm_$1")
			},
		},
		{
			// Remaining -gencode flags are redundant after the rewrite.
			Name: "dropGencodeFlags",
			Apply: func(s string) string {
				return gencodeRe.ReplaceAllString(s, "")
			},
		},
		{
			Name: "dropExperimentalFlags",
			Apply: func(s string) string {
				s = strings.ReplaceAll(s, " --expt-extended-lambda", "")
				s = strings.ReplaceAll(s, " --expt-relaxed-constexpr", "")
				return s
			},
		},
		{
			Name: "normalizeWarningSeparator",
			Apply: func(s string) string {
				return strings.ReplaceAll(s, "-Wall,-Werror", "-Wall -Werror")
			},
		},
		{
			// Rewrite the "compile as CUDA" marker and add the flags
			// only the analysis tool needs.
			Name: "markCompileAsCUDA",
			Apply: func(s string) string {
				return strings.ReplaceAll(s, "-x cu ", "-x cuda --no-cuda-version-check --cuda-path=/usr/local/cuda ")
			},
		},
		{
			Name: "injectCUDAInclude",
			Apply: func(s string) string {
				return strings.ReplaceAll(s, "--cuda-path=/usr/local/cuda ", "--cuda-path=/usr/local/cuda -isystem /usr/local/cuda/include ")
			},
		},
		{
			Name: "relaxWerror",
			Apply: func(s string) string {
				return strings.ReplaceAll(s, "-Werror", "-Werror -Wno-unknown-cuda-version -Wno-unused-command-line-argument")
			},
		},
		{
			Name: "dropRedundantSuppression",
			Apply: func(s string) string {
				return strings.ReplaceAll(s, " -Wno-deprecated-gpu-targets", "")
			},
		},
		{
			Name: "dropHostForwarding",
			Apply: func(s string) string {
				return strings.ReplaceAll(s, " -forward-unknown-to-host-compiler", "")
			},
		},
		{
			Name: "reformatXcompiler",
			Apply: func(s string) string {
				s = xcompilerEqRe.ReplaceAllString(s, "-Xcompiler $1")
				s = compilerOptsRe.ReplaceAllString(s, "-Xcompiler $1")
				return s
			},
		},
		{
			// The recorded compiler paths point at the ccache wrappers;
			// the analysis tool needs the canonical system binaries.
			Name: "canonicalCompilerPaths",
			Apply: func(s string) string {
				s = strings.ReplaceAll(s, "/usr/local/bin/gcc", "/usr/bin/gcc")
				s = strings.ReplaceAll(s, "/usr/local/bin/g++", "/usr/bin/g++")
				s = strings.ReplaceAll(s, "/usr/local/bin/nvcc", "/usr/local/cuda/bin/nvcc")
				return s
			},
		},
	}
}

// applyRules runs every rule in order over one command line.
func applyRules(command string, rules []Rule) string {
	for _, r := range rules {
		command = r.Apply(command)
	}
	return command
}
