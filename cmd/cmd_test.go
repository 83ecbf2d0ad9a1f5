package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/skinkit/internal/ui"
)

var demoSkin = map[string]string{
	"global.skin": `skin_name demo 640x480 1920x1200
font body @regular 12
dialog main stats
commandlist open_stats AND
commandlist_add open_stats null DIALOG_TOGGLE stats
key F2 open_stats
`,
	"main.skin": `picture logo logo 1
label_text caption body WHITE LEFT Welcome
map world 16
begin seq
  begin par
    logo
    caption
  end
  world
end
`,
	"stats.skin": `gauge hp bar null null HP WE Hit points
begin par
  hp
end
`,
}

// writeSkins creates a skin directory holding the demo skin and a config
// file, and returns the flags pointing at both.
func writeSkins(t *testing.T, files map[string]string) []string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "skins", "demo")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pictures"), 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	for name, size := range map[string]image.Point{"logo": {X: 40, Y: 20}, "bar": {X: 80, Y: 6}} {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rectangle{Max: size})))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pictures", name+".png"), buf.Bytes(), 0o644))
	}
	cfg := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("skin:\n  default: demo\n  resolution: 800x600\nmap:\n  tile_size: 16\n"), 0o644))
	return []string{"--config", cfg, "--skin-dir", filepath.Join(root, "skins")}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	out, err := execute(t, append([]string{"check", "demo"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   main 0,0 800x600")
	assert.Contains(t, out, "ok   stats")
	assert.Contains(t, out, "skin 'demo' ok: 2 dialogs, 1 command lists at 800x600")
}

func TestCheckUsesDefaultSkin(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	out, err := execute(t, append([]string{"check"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "skin 'demo' ok")
}

func TestCheckErrors(t *testing.T) {
	broken := map[string]string{}
	for k, v := range demoSkin {
		broken[k] = v
	}
	broken["stats.skin"] = "gauge hp bar null null HP DIAGONAL Hit points\n"

	tests := []struct {
		name    string
		files   map[string]string
		args    []string
		wantErr string
	}{
		{name: "unknown skin", files: demoSkin, args: []string{"check", "nope"}, wantErr: "skin 'nope' not found"},
		{name: "resolution too small", files: demoSkin, args: []string{"check", "demo", "--resolution", "320x200"}, wantErr: "resolution 320x200 not supported"},
		{name: "load error", files: broken, args: []string{"check", "demo"}, wantErr: "stats.skin:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := writeSkins(t, tt.files)
			_, err := execute(t, append(tt.args, flags...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInvalidResolutionFlag(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	_, err := execute(t, append([]string{"check", "--resolution", "wide"}, flags...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid size 'wide'")
}

func TestDumpYAML(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	out, err := execute(t, append([]string{"dump", "demo", "-o", "yaml"}, flags...)...)
	require.NoError(t, err)
	var doc ui.Document
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "demo", doc.Name)
	require.Len(t, doc.Dialogs, 2)
	assert.Equal(t, "0,0 800x600", doc.Dialogs[0].Bounds)
	require.Len(t, doc.Keys, 1)
	assert.Equal(t, "f2", doc.Keys[0].Key)
}

func TestDumpSelectedDialogJSON(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	out, err := execute(t, append([]string{"dump", "demo", "-d", "stats", "-o", "json"}, flags...)...)
	require.NoError(t, err)
	var doc ui.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Dialogs, 1)
	assert.Equal(t, "stats", doc.Dialogs[0].Name)
	assert.Equal(t, "hp", doc.Dialogs[0].Elements[0].Name)
}

func TestDumpTree(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	out, err := execute(t, append([]string{"dump", "demo", "--no-color", "--width", "100"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "skin demo")
	assert.Contains(t, out, "world")
	assert.NotContains(t, out, "\x1b[", "no-color output has no escape sequences")
}

func TestDumpErrors(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	_, err := execute(t, append([]string{"dump", "demo", "-o", "xml"}, flags...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format 'xml' (valid: tree, yaml, json, toml)")

	_, err = execute(t, append([]string{"dump", "demo", "-d", "missing"}, flags...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestConfigGet(t *testing.T) {
	flags := writeSkins(t, demoSkin)

	out, err := execute(t, append([]string{"config", "get"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "tile_size: 16")
	assert.Contains(t, out, "resolution: 800x600")
	assert.Contains(t, out, "max_darkness_alpha: 0.75")

	out, err = execute(t, append([]string{"config", "get", "--defaults"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "tile_size: 32")
	assert.Contains(t, out, "# skinkit default configuration")
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("map:\n  tile_size: 0\n"), 0o644))

	_, err := execute(t, "config", "get", "--config", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map.tile_size must be positive")
}

func TestVersion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "skinkit v0.0.0-nightly"))
	assert.Contains(t, out, "commit unknown")
}

func TestResolutionValue(t *testing.T) {
	var r resolutionValue
	assert.Equal(t, "", r.String())
	assert.Equal(t, "WxH", r.Type())

	require.NoError(t, r.Set("800X600"))
	assert.Equal(t, image.Pt(800, 600), image.Point(r))
	assert.Equal(t, "800x600", r.String())

	assert.Error(t, r.Set("0x600"))
	assert.Equal(t, "800x600", r.String(), "a failed Set keeps the old value")
}

func TestOutputFormatValue(t *testing.T) {
	o := outputFormatValue("tree")
	require.NoError(t, o.Set("TOML"))
	assert.Equal(t, "toml", o.String())
	assert.Error(t, o.Set("csv"))
	assert.Equal(t, []string{"tree", "yaml", "json", "toml"}, outputFormats())
}

func TestTerminalDeviceNames(t *testing.T) {
	in, out := terminalDeviceNames("windows")
	assert.Equal(t, "CONIN$", in)
	assert.Equal(t, "CONOUT$", out)

	in, out = terminalDeviceNames("linux")
	assert.Equal(t, "/dev/tty", in)
	assert.Equal(t, "/dev/tty", out)
}

func TestDetectTerminalSizeFallbacks(t *testing.T) {
	orig := termGetSize
	t.Cleanup(func() { termGetSize = orig })
	termGetSize = func(int) (int, int, error) { return 0, 0, errors.New("not a terminal") }

	t.Setenv("COLUMNS", "77")
	w, _ := detectTerminalSize()
	assert.Equal(t, 77, w)

	t.Setenv("COLUMNS", "")
	w, _ = detectTerminalSize()
	assert.Equal(t, defaultFallbackTermWidth, w)

	termGetSize = func(int) (int, int, error) { return 132, 40, nil }
	w, h := detectTerminalSize()
	assert.Equal(t, 132, w)
	assert.Equal(t, 40, h)
}

func TestGetProgramOptions(t *testing.T) {
	origPiped, origOpen := stdinIsPiped, openTerminalIOFn
	t.Cleanup(func() { stdinIsPiped, openTerminalIOFn = origPiped, origOpen })

	stdinIsPiped = func() bool { return false }
	opts, cleanup := getProgramOptions()
	assert.Nil(t, opts)
	cleanup()

	stdinIsPiped = func() bool { return true }
	openTerminalIOFn = func() (*os.File, *os.File, error) { return nil, nil, errors.New("no tty") }
	opts, cleanup = getProgramOptions()
	assert.Nil(t, opts, "without a tty the program keeps its defaults")
	cleanup()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	openTerminalIOFn = func() (*os.File, *os.File, error) { return r, w, nil }
	opts, cleanup = getProgramOptions()
	assert.Len(t, opts, 4)
	cleanup()
	_, err = w.Write([]byte("x"))
	assert.Error(t, err, "cleanup closes the terminal")
}

func TestShippedSkinChecks(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, err := execute(t, "check", "default", "--skin-dir", filepath.Join("..", "skins"))
	require.NoError(t, err)
	for _, d := range []string{"main", "stats", "inventory"} {
		assert.Contains(t, out, "ok   "+d)
	}
	assert.Contains(t, out, "skin 'default' ok: 3 dialogs, 4 command lists at 1024x768")
}
