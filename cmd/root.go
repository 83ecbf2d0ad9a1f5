package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/skinkit/internal/config"
	"github.com/oakwood-commons/skinkit/internal/gamestate"
	"github.com/oakwood-commons/skinkit/internal/skin"
	"github.com/oakwood-commons/skinkit/pkg/logger"
	"github.com/oakwood-commons/skinkit/pkg/settings"
)

const (
	rootCommandKey = "root_command"
	subCommandKey  = "sub_command"
)

// debugLogLevel is the zap level --debug selects. It enables V(2) traces.
const debugLogLevel int8 = -2

// app is the state shared by the commands of one invocation.
type app struct {
	run        *settings.Run
	configFile string
	debug      bool
	resolution resolutionValue
	cfg        config.Config
	ctx        context.Context
}

func newRootCmd() *cobra.Command {
	a := &app{run: settings.NewCliParams(), ctx: context.Background()}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Load, check and preview game client skins",
		Long: settings.CliBinaryName + ` interprets skin directories: a global.skin file plus one
<dialog>.skin file per dialog. It validates them, dumps the solved layouts
and previews the map renderer.`,
		Example: "\n  skinkit check default\n  skinkit dump default -d main -o yaml\n  skinkit --resolution 800x600 inspect default\n  skinkit view default\n",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "path to a YAML config file (default $XDG_CONFIG_HOME/skinkit/config.yaml)")
	pf.BoolVar(&a.debug, "debug", false, "log debug traces to stderr")
	pf.BoolVar(&a.run.NoColor, "no-color", false, "disable color output")
	pf.StringVar(&a.run.SkinDir, "skin-dir", "", "directory holding one sub-directory per skin (default from config)")
	pf.Var(&a.resolution, "resolution", "screen size WxH dialogs are laid out for (default from config)")

	cmd.Version = cliVersionString()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(
		newCheckCmd(a),
		newDumpCmd(a),
		newInspectCmd(a),
		newViewCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration, folds the flags into the run settings and
// attaches the logger and settings to the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := config.ResolvePath(a.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.run.ConfigPath = path
	if a.debug {
		a.run.MinLogLevel = debugLogLevel
	}
	if a.run.SkinDir == "" {
		a.run.SkinDir = cfg.Skin.Path
	}
	a.run.Resolution = image.Point(a.resolution)
	if a.run.Resolution == (image.Point{}) {
		if a.run.Resolution, err = cfg.Resolution(); err != nil {
			return err
		}
	}

	lgr := logger.Get(a.run.LogLevel(cfg.Log.Level)).WithValues(rootCommandKey, settings.CliBinaryName, subCommandKey, cmd.Name())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, &lgr)
	a.ctx = settings.IntoContext(ctx, a.run)
	lgr.V(1).Info("configuration loaded", "config", path, "skin_dir", a.run.SkinDir, "resolution", fmt.Sprintf("%dx%d", a.run.Resolution.X, a.run.Resolution.Y))
	return nil
}

// skinName returns the positional skin argument, else the configured
// default skin.
func (a *app) skinName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Skin.Default
}

// loadSkin loads a skin from its directory under the skin dir. The model
// backs every gauge and item list; the skin has no game client.
func (a *app) loadSkin(name string, model *gamestate.Model) (*skin.Skin, error) {
	dir := filepath.Join(a.run.SkinDir, name)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("skin '%s' not found in %s", name, a.run.SkinDir)
	}
	if model == nil {
		model = gamestate.NewModel()
	}
	return skin.Load(a.ctx, skin.Source{
		FS:         os.DirFS(dir),
		Observers:  model.Observers(),
		Resolution: a.run.Resolution,
	})
}

// cliVersionString builds a human-readable version string for the version
// command and cobra's --version flag.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print " + settings.CliBinaryName + " version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
			return nil
		},
	}
}

func Execute() error {
	return newRootCmd().Execute()
}
