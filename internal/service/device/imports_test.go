package device

import (
	"go/build"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/oshokin/morse-beacon"

// hostOnly lists modules the firmware image cannot link.
var hostOnly = []string{
	"github.com/charmbracelet/",
	"github.com/go-chi/",
	"github.com/mitchellh/go-ps",
	"github.com/prometheus/",
	"github.com/spf13/",
	"gitlab.com/gomidi/",
	"go.bug.st/serial",
	"google.golang.org/grpc",
}

// TestPackage_NoHostOnlyImports verifies the core and everything it reaches
// inside the module stay free of host-only dependencies.
func TestPackage_NoHostOnlyImports(t *testing.T) {
	t.Parallel()

	root, err := filepath.Abs(filepath.Join("..", "..", ".."))
	require.NoError(t, err)

	var (
		ctx     = build.Default
		visited = make(map[string]bool)
		walk    func(path string)
	)

	ctx.BuildTags = append(ctx.BuildTags, "tinygo", "baremetal")

	walk = func(path string) {
		if visited[path] {
			return
		}

		visited[path] = true

		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(path, modulePath)))

		pkg, err := ctx.ImportDir(dir, 0)
		require.NoError(t, err, path)

		for _, imp := range pkg.Imports {
			for _, prefix := range hostOnly {
				require.False(t, strings.HasPrefix(imp, prefix), "%s imports %s", path, imp)
			}

			if strings.HasPrefix(imp, modulePath+"/") {
				walk(imp)
			}
		}
	}

	walk(modulePath + "/internal/service/device")
	require.True(t, visited[modulePath+"/internal/playback"])
}
