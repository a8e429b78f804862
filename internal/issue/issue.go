// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	BasePathMissingId
	BasePathInsideAppId
	GitNotFoundId
	SystemLibraryMissingId
	RuntimeIncompleteId
	GpuUnavailableId
	MigrationFailedId
	ServerStartFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

The easelboot configuration file exists but could not be read or failed
schema validation, so the installation cannot be located.

## Things you can try:
- Inspect the reported field and fix the value:
~~~
$ easelboot config path
~~~

- Recreate the default configuration (your installation itself is untouched):
~~~
$ easelboot config init
~~~

- Then point it back at your installation:
~~~
$ easelboot config set base_path /path/to/easel
~~~`,
	}

	basePathMissingIssue = &Issue{
		id: BasePathMissingId,
		mdMsg: `
# Base path is missing or not writable!

The configured base path should contain your Easel Studio data
(app/, .venv/, extensions/, models/). It does not exist, or this user
cannot read and write it.

## Things you can try:
- Check the configured value:
~~~
$ easelboot config show
~~~

- Point easelboot at the right directory:
~~~
$ easelboot config set base_path /path/to/easel
~~~

- If the directory was deleted, re-run the installation:
~~~
$ easelboot launch
~~~

- On external drives, make sure the volume is mounted before launching.`,
	}

	basePathInsideAppIssue = &Issue{
		id: BasePathInsideAppId,
		mdMsg: `
# Base path is inside the application install directory!

Your data directory must live outside the easelboot install location.
Application updates replace the install directory wholesale, which would
wipe your models, extensions, and generated images.

## Things you can try:
- Choose a directory in your user profile, e.g.:
~~~
$ easelboot config set base_path ~/Easel
~~~

- Then validate again:
~~~
$ easelboot validate
~~~`,
	}

	gitNotFoundIssue = &Issue{
		id: GitNotFoundId,
		mdMsg: `
# Git is not installed!

Extensions are versioned with git; installing and updating them requires a
working git client on your search path.

## Things you can try:
- Linux: install via your package manager:
~~~
$ sudo apt install git    # Debian/Ubuntu
$ sudo dnf install git    # Fedora
~~~

- macOS: install the Xcode command line tools:
~~~
$ xcode-select --install
~~~

- Windows: install Git for Windows from git-scm.com, then reopen the
  terminal so PATH changes take effect.`,
		extLinks: []HttpLink{"https://git-scm.com/downloads"},
	}

	systemLibraryMissingIssue = &Issue{
		id: SystemLibraryMissingId,
		mdMsg: `
# Visual C++ runtime is missing!

The bundled Python interpreter needs the Microsoft Visual C++ runtime
(vcruntime140.dll), which is not present on this system.

## Things you can try:
- Install the latest Visual C++ Redistributable (x64) from Microsoft and
  restart easelboot.`,
		extLinks: []HttpLink{"https://aka.ms/vs/17/release/vc_redist.x64.exe"},
	}

	runtimeIncompleteIssue = &Issue{
		id: RuntimeIncompleteId,
		mdMsg: `
# The isolated Python runtime is incomplete!

The virtual environment interpreter or the requirement manifests
(app/pyproject.toml, app/uv.lock) are missing, so the studio server cannot
start reliably.

## Things you can try:
- Reinstall the runtime from the repair surface:
~~~
$ easelboot repair
~~~

- Or remove the .venv directory inside your base path and launch again;
  the runtime is recreated from the lock file.`,
	}

	gpuUnavailableIssue = &Issue{
		id: GpuUnavailableId,
		mdMsg: `
# No supported GPU was detected!

Image generation needs an NVIDIA GPU with a recent driver, or Apple
silicon. CPU mode works but is drastically slower.

## Things you can try:
- NVIDIA: install or update the driver (580 or newer), then verify:
~~~
$ nvidia-smi
~~~

- Continue on CPU by selecting it explicitly:
~~~
$ easelboot config set device cpu
~~~`,
		extLinks: []HttpLink{"https://www.nvidia.com/drivers"},
	}

	migrationFailedIssue = &Issue{
		id: MigrationFailedId,
		mdMsg: `
# Extension migration failed!

The extension manager could not export or restore the snapshot of your
previous installation. Your source installation was not modified.

## Things you can try:
- Re-run the migration with verbose output to see the helper's own logs:
~~~
$ easelboot migrate /path/to/old/easel --verbose
~~~

- Make sure the source path really contains an extensions/ directory.
- You can always skip migration and reinstall extensions by hand later.`,
	}

	serverStartFailedIssue = &Issue{
		id: ServerStartFailedId,
		mdMsg: `
# The studio server failed to start!

The server process exited before accepting connections.

## Things you can try:
- Validate the installation first:
~~~
$ easelboot validate
~~~

- Check whether another process already uses the configured port:
~~~
$ easelboot config set launch.port 0
~~~
  (0 lets the server pick a free port)

- Launch with --verbose to see the server console output.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		basePathMissingIssue.Id():      basePathMissingIssue,
		basePathInsideAppIssue.Id():    basePathInsideAppIssue,
		gitNotFoundIssue.Id():          gitNotFoundIssue,
		systemLibraryMissingIssue.Id(): systemLibraryMissingIssue,
		runtimeIncompleteIssue.Id():    runtimeIncompleteIssue,
		gpuUnavailableIssue.Id():       gpuUnavailableIssue,
		migrationFailedIssue.Id():      migrationFailedIssue,
		serverStartFailedIssue.Id():    serverStartFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
