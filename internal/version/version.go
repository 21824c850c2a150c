package version

import (
	"fmt"
	"io"
	"runtime"
)

// Set at build time through -ldflags "-X".
var (
	App       = "payapproval"
	Version   string
	GitCommit string
	BuildTime string
)

// Info describes the running binary.
type Info struct {
	App       string
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the build information, falling back to the runtime for the
// toolchain and platform.
func Get() Info {
	v := Version
	if v == "" {
		v = "dev"
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Info{
		App:       App,
		Version:   v,
		Commit:    commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the one-line form logged at startup.
func (i Info) String() string {
	if i.Commit == "" {
		return fmt.Sprintf("%s %s", i.App, i.Version)
	}
	return fmt.Sprintf("%s %s (%s)", i.App, i.Version, i.Commit)
}

// Print writes the full build information to w.
func Print(w io.Writer) {
	i := Get()
	fmt.Fprintf(w, "%s version %s\n", i.App, i.Version)
	if i.Commit != "" {
		fmt.Fprintf(w, "Git commit: %s\n", i.Commit)
	}
	if i.BuildTime != "" {
		fmt.Fprintf(w, "Build time: %s\n", i.BuildTime)
	}
	fmt.Fprintf(w, "Go version: %s\n", i.GoVersion)
	fmt.Fprintf(w, "Built for: %s\n", i.Platform)
}
