// Package compiledb rewrites CMake-generated compile databases so the
// device-compiler invocations they record are digestible by clangd.
package compiledb

// Entry is one record of a compile database: the exact compiler
// invocation used for one source file.
type Entry struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
	Output    string `json:"output,omitempty"`
}
