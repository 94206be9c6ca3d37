package project

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/LegacyCodeHQ/cssvars/config"
	"github.com/LegacyCodeHQ/cssvars/cssscan"
	"github.com/LegacyCodeHQ/cssvars/sfc"
	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// Options are the command-line settings shared by every command. Flag values
// override the configuration file.
type Options struct {
	ConfigPath string
	Root       string
	// Aliases holds "prefix=target" pairs, tried before the configured aliases.
	Aliases []string
	Server  bool
	// ServerSet is true when --server was given explicitly.
	ServerSet bool
	LogLevel  string
}

// Project is an opened project: configuration, logger and a session whose
// registry holds every discovered stylesheet.
type Project struct {
	Root        string
	Config      *config.Config
	Log         *zap.Logger
	Session     *stylegraph.Session
	Stylesheets []string
	Paths       PathResolver
}

// Open loads configuration, discovers stylesheets under the root and
// pre-processes them. Stylesheets that cannot be read are logged and skipped.
func Open(opts Options, logOutput io.Writer) (*Project, error) {
	dir := opts.Root
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath, absDir)
	if err != nil {
		return nil, err
	}
	if opts.Root != "" {
		cfg.Root = absDir
	}
	root := resolveSymlinks(filepath.Clean(cfg.Root))

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log, err := config.NewLogger(level, logOutput)
	if err != nil {
		return nil, err
	}

	aliases, err := parseAliasFlags(opts.Aliases, root)
	if err != nil {
		return nil, err
	}
	aliases = append(aliases, cfg.Alias.Table(root)...)

	devServer, set := cfg.IsDevServer()
	if opts.ServerSet {
		devServer, set = opts.Server, true
	}
	if !set {
		log.Warn("The server option is not set, assuming a build. Use --server or 'server:' in " + config.DefaultFileName + " for a dev server")
	}

	files, err := stylegraph.DiscoverStylesheets(root, cfg.Include)
	if err != nil {
		return nil, err
	}

	scanner := cssscan.New(log)
	pre := stylegraph.Preprocessor{Scanner: scanner, Aliases: aliases}
	registry, err := pre.Build(files, stylegraph.FilesystemContentReader())
	for _, e := range multierr.Errors(err) {
		log.Warn("Skipping stylesheet", zap.Error(e))
	}
	log.Debug("Pre-processed stylesheets", zap.String("root", root), zap.Int("count", registry.Len()))

	parser, err := sfc.NewParser(log, sfc.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	session := stylegraph.NewSession(registry,
		stylegraph.WithScanner(scanner),
		stylegraph.WithAliases(aliases),
		stylegraph.WithDescriptorProvider(parser),
		stylegraph.WithDevServer(devServer),
		stylegraph.WithLogger(log))

	return &Project{
		Root:        root,
		Config:      cfg,
		Log:         log,
		Session:     session,
		Stylesheets: files,
		Paths:       NewPathResolver(root, true),
	}, nil
}

// Components returns every single-file component under the root, sorted.
func (p *Project) Components() ([]string, error) {
	var out []string
	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != p.Root && stylegraph.IsSkippedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if stylegraph.IsComponentPath(path) {
			out = append(out, stylegraph.NormalizePath(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect components: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// TransformAll transforms every component so that the invalidation index is
// populated. Failing components are reported together.
func (p *Project) TransformAll() ([]*stylegraph.ComponentBindings, error) {
	components, err := p.Components()
	if err != nil {
		return nil, err
	}

	var (
		results []*stylegraph.ComponentBindings
		errs    error
	)
	for _, c := range components {
		b, err := p.Session.Transform(c)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		results = append(results, b)
	}
	return results, errs
}

func parseAliasFlags(values []string, root string) (stylegraph.AliasTable, error) {
	var table config.Aliases
	for _, v := range values {
		prefix, target, ok := strings.Cut(v, "=")
		if !ok || prefix == "" {
			return nil, fmt.Errorf("invalid alias %q (expected prefix=target)", v)
		}
		table = append(table, stylegraph.Alias{Prefix: prefix, Target: target})
	}
	return table.Table(root), nil
}
