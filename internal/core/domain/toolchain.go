package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// Compiler identifies a compiler driver by the command used to invoke it.
type Compiler struct {
	Driver string
}

var (
	// GCC is the GNU C compiler driver.
	GCC = Compiler{Driver: "gcc"}
	// GPP is the GNU C++ compiler driver.
	GPP = Compiler{Driver: "g++"}
	// Clang is the LLVM C compiler driver.
	Clang = Compiler{Driver: "clang"}
	// ClangPP is the LLVM C++ compiler driver.
	ClangPP = Compiler{Driver: "clang++"}
)

// String returns the driver command.
func (c Compiler) String() string {
	return c.Driver
}

// Standard is a language standard: the flag selecting it and the source extension it applies to.
type Standard struct {
	VersionFlag string
	Extension   string
}

var (
	// C89 selects ISO C 1989.
	C89 = Standard{VersionFlag: "-std=c89", Extension: ".c"}
	// C99 selects ISO C 1999.
	C99 = Standard{VersionFlag: "-std=c99", Extension: ".c"}
	// C11 selects ISO C 2011.
	C11 = Standard{VersionFlag: "-std=c11", Extension: ".c"}
	// C17 selects ISO C 2017.
	C17 = Standard{VersionFlag: "-std=c17", Extension: ".c"}
	// CXX11 selects ISO C++ 2011.
	CXX11 = Standard{VersionFlag: "-std=c++11", Extension: ".cpp"}
	// CXX14 selects ISO C++ 2014.
	CXX14 = Standard{VersionFlag: "-std=c++14", Extension: ".cpp"}
	// CXX17 selects ISO C++ 2017.
	CXX17 = Standard{VersionFlag: "-std=c++17", Extension: ".cpp"}
	// CXX20 selects ISO C++ 2020.
	CXX20 = Standard{VersionFlag: "-std=c++20", Extension: ".cpp"}
	// CXX23 selects ISO C++ 2023.
	CXX23 = Standard{VersionFlag: "-std=c++23", Extension: ".cpp"}
)

var standardsByName = map[string]Standard{
	"c89":   C89,
	"c99":   C99,
	"c11":   C11,
	"c17":   C17,
	"c++11": CXX11,
	"c++14": CXX14,
	"c++17": CXX17,
	"c++20": CXX20,
	"c++23": CXX23,
}

// LookupStandard resolves a standard by its short name, e.g. "c99" or "c++20".
func LookupStandard(name string) (Standard, bool) {
	std, ok := standardsByName[strings.ToLower(strings.TrimPrefix(name, "-std="))]
	return std, ok
}

// AppliesTo reports whether the standard's flag belongs on the compile line of source.
func (s Standard) AppliesTo(source string) bool {
	return s.Extension != "" && filepath.Ext(source) == s.Extension
}

// BuildType selects the kind of artifact a target produces.
type BuildType int

const (
	// Executable links objects into a program with the compiler driver.
	Executable BuildType = iota
	// Library archives objects into a static library.
	Library
)

// String returns the manifest spelling of the build type.
func (t BuildType) String() string {
	if t == Library {
		return "library"
	}
	return "executable"
}

// ParseBuildType resolves a manifest build type name. The empty string means Executable.
func ParseBuildType(s string) (BuildType, bool) {
	switch strings.ToLower(s) {
	case "", "exe", "executable":
		return Executable, true
	case "lib", "library":
		return Library, true
	default:
		return Executable, false
	}
}

// sourceExtensions lists the file extensions accepted as compilable sources.
var sourceExtensions = []string{".c", ".cc", ".cpp", ".cxx"}

// IsSourceFile reports whether path has a recognized C or C++ source extension.
func IsSourceFile(path string) bool {
	return slices.Contains(sourceExtensions, filepath.Ext(path))
}
