package domain

import "testing"

func TestPlatformMapping(t *testing.T) {
	cases := []struct {
		goos string
		want OS
	}{
		{"linux", OSLinux},
		{"darwin", OSMac},
		{"windows", OSWindows},
		{"plan9", OSUnknown},
	}
	for _, c := range cases {
		if got := osFor(c.goos); got != c.want {
			t.Errorf("osFor(%q) = %q, want %q", c.goos, got, c.want)
		}
	}

	arches := map[string]Arch{
		"amd64":   ArchX64,
		"386":     ArchX86,
		"arm64":   ArchARM64,
		"arm":     ArchARM32,
		"riscv64": ArchUnknown,
	}
	for goarch, want := range arches {
		if got := archFor(goarch); got != want {
			t.Errorf("archFor(%q) = %q, want %q", goarch, got, want)
		}
	}
}
