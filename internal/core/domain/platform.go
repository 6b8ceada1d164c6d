package domain

import "runtime"

// OS identifies the host operating system family.
type OS string

const (
	OSWindows OS = "windows"
	OSLinux   OS = "linux"
	OSMac     OS = "mac"
	OSUnknown OS = "unknown"
)

// Arch identifies the host CPU architecture.
type Arch string

const (
	ArchX64     Arch = "x64"
	ArchX86     Arch = "x86"
	ArchARM64   Arch = "arm64"
	ArchARM32   Arch = "arm32"
	ArchUnknown Arch = "unknown"
)

// CurrentOS returns the operating system kiln was compiled for.
func CurrentOS() OS {
	return osFor(runtime.GOOS)
}

// CurrentArch returns the architecture kiln was compiled for.
func CurrentArch() Arch {
	return archFor(runtime.GOARCH)
}

func osFor(goos string) OS {
	switch goos {
	case "windows":
		return OSWindows
	case "linux":
		return OSLinux
	case "darwin":
		return OSMac
	default:
		return OSUnknown
	}
}

func archFor(goarch string) Arch {
	switch goarch {
	case "amd64":
		return ArchX64
	case "386":
		return ArchX86
	case "arm64":
		return ArchARM64
	case "arm":
		return ArchARM32
	default:
		return ArchUnknown
	}
}
