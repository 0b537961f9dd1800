// Command cbuild is a minimal example driver: a build description for a
// small C project, wired against the cbuild library and run as an
// ordinary Go program's main.
package main

import (
	"os"

	"github.com/distr1/cbuild"
)

func main() {
	o := cbuild.New(cbuild.Settings{})
	o.SetOutputDir("build").
		SetGenerateCompileCommands(true).
		AddGlobalCflags("-Wall")

	libmath := o.StaticLibrary("libmath")
	libmath.AddSource("src/math/*.c").AddIncludeDir("src/math/include")

	main := o.Executable("main")
	main.AddSource("src/main.c").
		AddIncludeDir("src/math/include").
		LinkTarget(libmath)

	os.Exit(o.Run(os.Args[1:]))
}
