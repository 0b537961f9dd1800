package cc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectFamily(t *testing.T) {
	for _, test := range []struct {
		desc string
		exe  string
		want Family
	}{
		{desc: "gcc", exe: "gcc", want: GNU},
		{desc: "clang", exe: "clang", want: GNU},
		{desc: "msvc cl", exe: "cl.exe", want: MSVC},
		{desc: "msvc cl with path", exe: `C:\VC\bin\cl.exe`, want: MSVC},
		{desc: "clang-cl is still clang", exe: "clang-cl.exe", want: GNU},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if got := DetectFamily(test.exe); got != test.want {
				t.Errorf("DetectFamily(%q) = %v, want %v", test.exe, got, test.want)
			}
		})
	}
}

func TestCompileSpecLineGNU(t *testing.T) {
	spec := CompileSpec{
		CompilerExe:   "cc",
		Family:        GNU,
		Obj:           "build/obj_math/math.o",
		Src:           "math.c",
		Cflags:        []string{"-O2"},
		IncludeDirs:   []string{"include"},
		GlobalDefines: []string{"GLOBAL"},
		TargetDefines: []string{"LOCAL=1"},
	}
	want := []string{
		"cc", "-c", "-o", "build/obj_math/math.o",
		"-O2",
		"-Iinclude",
		"-DGLOBAL", "-DLOCAL=1",
		"math.c",
	}
	if diff := cmp.Diff(want, spec.Line()); diff != "" {
		t.Errorf("Line() mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveSpecLine(t *testing.T) {
	gnu := ArchiveSpec{ArchiverExe: "ar", Family: GNU, Out: "libmath.a", Objs: []string{"math.o"}}
	if diff := cmp.Diff([]string{"ar", "rcs", "libmath.a", "math.o"}, gnu.Line()); diff != "" {
		t.Errorf("GNU archive line mismatch (-want +got):\n%s", diff)
	}

	msvc := ArchiveSpec{ArchiverExe: "lib.exe", Family: MSVC, Out: "math.lib", Objs: []string{"math.obj"}}
	if diff := cmp.Diff([]string{"lib.exe", "/OUT:math.lib", "math.obj"}, msvc.Line()); diff != "" {
		t.Errorf("MSVC archive line mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkSpecLineUnixNeverEmitsDylibSuffix(t *testing.T) {
	spec := LinkSpec{
		LinkerExe:    "cc",
		Family:       GNU,
		Out:          "main",
		Objs:         []string{"main.o"},
		LibraryDirs:  []string{"lib"},
		LinkLibs:     []string{"m"},
		DepArtifacts: []string{"libmath.a"},
	}
	got := spec.Line()
	want := []string{"cc", "-o", "main", "main.o", "-Llib", "-lm", "libmath.a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Line() mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkSpecLineShared(t *testing.T) {
	spec := LinkSpec{LinkerExe: "cc", Family: GNU, Out: "libfoo.so", Shared: true}
	got := spec.Line()
	want := []string{"cc", "-o", "libfoo.so", "-shared"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Line() mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputName(t *testing.T) {
	for _, test := range []struct {
		desc string
		kind Kind
		goos string
		want string
	}{
		{"exe windows", Executable, "windows", "main.exe"},
		{"exe linux", Executable, "linux", "main"},
		{"static linux", StaticLibrary, "linux", "libmain.a"},
		{"static windows", StaticLibrary, "windows", "main.lib"},
		{"shared darwin", SharedLibrary, "darwin", "libmain.dylib"},
		{"shared linux", SharedLibrary, "linux", "libmain.so"},
		{"shared windows", SharedLibrary, "windows", "main.dll"},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if got := OutputName(test.kind, "main", test.goos); got != test.want {
				t.Errorf("OutputName() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestObjectName(t *testing.T) {
	for _, test := range []struct {
		desc   string
		src    string
		family Family
		want   string
	}{
		{"gnu flat", "math.c", GNU, "math.o"},
		{"gnu nested", "src/util/math.c", GNU, "math.o"},
		{"msvc", "math.c", MSVC, "math.obj"},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if got := ObjectName(test.src, test.family); got != test.want {
				t.Errorf("ObjectName(%q, %v) = %q, want %q", test.src, test.family, got, test.want)
			}
		})
	}
}

func TestScavengeShowIncludes(t *testing.T) {
	stdout := "Note: including file: C:\\inc\\foo.h\r\nNote: including file:  C:\\inc\\bar.h\r\nunrelated line\r\n"
	got := string(ScavengeShowIncludes("obj/x.obj", []byte(stdout)))
	want := "obj/x.obj: C:\\inc\\foo.h C:\\inc\\bar.h\n"
	if got != want {
		t.Errorf("ScavengeShowIncludes() = %q, want %q", got, want)
	}
}
